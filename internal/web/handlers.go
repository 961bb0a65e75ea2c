package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/pantryworks/trackhub/internal/core"
	"github.com/pantryworks/trackhub/internal/metrics"
)

// readBody drains the request body up to 1 MiB.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeFailure(w, r, http.StatusBadRequest, "request body unreadable", "VAL003")
		return nil, false
	}
	return body, true
}

func badJSON(w http.ResponseWriter, r *http.Request) {
	writeFailure(w, r, http.StatusBadRequest, "invalid JSON body", "VAL003")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearchClients(w http.ResponseWriter, r *http.Request) {
	if body, ok := readBody(w, r); ok {
		s.searchClients(w, r, body)
	}
}

func (s *Server) searchClients(w http.ResponseWriter, r *http.Request, body []byte) {
	var q core.ClientQuery
	if err := json.Unmarshal(body, &q); err != nil {
		badJSON(w, r)
		return
	}
	res, err := s.service.SearchClients(r.Context(), q)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	metrics.ClientSearches.WithLabelValues(metrics.SearchOutcome(res.Found)).Inc()
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleSaveClient(w http.ResponseWriter, r *http.Request) {
	if body, ok := readBody(w, r); ok {
		s.saveClient(w, r, body)
	}
}

func (s *Server) saveClient(w http.ResponseWriter, r *http.Request, body []byte) {
	var payload core.Record
	if err := json.Unmarshal(body, &payload); err != nil {
		badJSON(w, r)
		return
	}
	// The action envelope rides in the same object; it is not a field.
	delete(payload, "action")

	res, err := s.service.SaveClient(r.Context(), payload)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	metrics.ClientSaves.WithLabelValues(string(res.Action)).Inc()
	writeJSON(w, r, http.StatusOK, struct {
		OK bool `json:"ok"`
		core.SaveResult
	}{OK: true, SaveResult: res})
}

func (s *Server) handleListPets(w http.ResponseWriter, r *http.Request) {
	if body, ok := readBody(w, r); ok {
		s.listPets(w, r, body)
	}
}

func (s *Server) listPets(w http.ResponseWriter, r *http.Request, body []byte) {
	var req core.PetList
	if err := json.Unmarshal(body, &req); err != nil {
		badJSON(w, r)
		return
	}
	pets, err := s.service.ListActivePets(r.Context(), req)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	if pets == nil {
		pets = []core.Pet{}
	}
	writeJSON(w, r, http.StatusOK, struct {
		OK   bool       `json:"ok"`
		Pets []core.Pet `json:"pets"`
	}{OK: true, Pets: pets})
}

func (s *Server) handleSavePets(w http.ResponseWriter, r *http.Request) {
	if body, ok := readBody(w, r); ok {
		s.savePets(w, r, body)
	}
}

func (s *Server) savePets(w http.ResponseWriter, r *http.Request, body []byte) {
	var batch core.PetBatch
	if err := json.Unmarshal(body, &batch); err != nil {
		badJSON(w, r)
		return
	}
	res, err := s.service.SavePets(r.Context(), batch)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	metrics.PetSaves.WithLabelValues("updated").Add(float64(res.Updates))
	metrics.PetSaves.WithLabelValues("inserted").Add(float64(res.Inserts))
	writeJSON(w, r, http.StatusOK, struct {
		OK bool `json:"ok"`
		core.PetBatchResult
	}{OK: true, PetBatchResult: res})
}

func (s *Server) handleFleaTickBrands(w http.ResponseWriter, r *http.Request) {
	s.fleaTickBrands(w, r)
}

func (s *Server) fleaTickBrands(w http.ResponseWriter, r *http.Request) {
	brands := s.service.FleaTickBrands()
	if brands == nil {
		brands = []string{}
	}
	writeJSON(w, r, http.StatusOK, struct {
		OK     bool     `json:"ok"`
		Brands []string `json:"brands"`
	}{OK: true, Brands: brands})
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	if body, ok := readBody(w, r); ok {
		s.createOrder(w, r, body)
	}
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request, body []byte) {
	var req core.OrderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		badJSON(w, r)
		return
	}
	res, err := s.service.CreateOrder(r.Context(), req)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	metrics.OrdersRecorded.Inc()
	metrics.LinesWritten.Add(float64(res.LineCount))
	writeJSON(w, r, http.StatusOK, struct {
		OK bool `json:"ok"`
		core.OrderResult
	}{OK: true, OrderResult: res})
}

// handleAction is the legacy single-endpoint dispatch: the request carries
// an action name alongside the operation's own fields.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var env struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		badJSON(w, r)
		return
	}

	switch env.Action {
	case "searchClient":
		s.searchClients(w, r, body)
	case "saveClient":
		s.saveClient(w, r, body)
	case "getPetsByClientRow":
		s.listPets(w, r, body)
	case "savePets":
		s.savePets(w, r, body)
	case "getFleaTickBrands":
		s.fleaTickBrands(w, r)
	case "recordSupplies":
		s.createOrder(w, r, body)
	default:
		writeFailure(w, r, http.StatusBadRequest,
			fmt.Sprintf("unknown action: %s", env.Action), "ACT001")
	}
}

func (s *Server) handleHygiene(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.Hygiene(r.Context())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, struct {
		OK     bool                `json:"ok"`
		Report *core.HygieneReport `json:"report"`
	}{OK: true, Report: report})
}

func (s *Server) handleAuditTrail(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeFailure(w, r, http.StatusBadRequest, "limit must be a non-negative integer", "VAL002")
			return
		}
		limit = n
	}
	entries, err := s.service.AuditTrail(r.Context(), limit)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	if entries == nil {
		entries = []core.AuditEntry{}
	}
	writeJSON(w, r, http.StatusOK, struct {
		OK      bool              `json:"ok"`
		Entries []core.AuditEntry `json:"entries"`
	}{OK: true, Entries: entries})
}
