package web

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clientIDRe = regexp.MustCompile(`^C-\d{8}-\d{3}$`)

func TestSaveClientThenSearch(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/clients", map[string]any{
		"firstName": "A",
		"lastName":  "B",
		"phone":     "(716) 555-0100",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "inserted", body["action"])
	assert.Regexp(t, clientIDRe, body["ClientID"])

	rec = doJSON(t, srv, http.MethodPost, "/api/clients/search", map[string]any{
		"phoneRaw": "7165550100",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	found := decodeBody(t, rec)
	assert.Equal(t, true, found["found"])
	client, ok := found["client"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, body["ClientID"], client["ClientID"])
}

func TestSaveClient_ValidationKeepsEnvelopeParity(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/clients", map[string]any{
		"city": "Buffalo",
	})
	// Validation rides in the envelope, not the status code.
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "VAL001", body["code"])
	assert.NotEmpty(t, body["error"])
}

func TestSaveClient_InvalidJSON(t *testing.T) {
	srv := newTestServer(t, nil)

	req := newRawRequest(t, http.MethodPost, "/api/clients", "{not json")
	rec := serve(srv, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VAL003", decodeBody(t, rec)["code"])
}

func TestPetsRoundTrip(t *testing.T) {
	srv := newTestServer(t, nil)

	saved := decodeBody(t, doJSON(t, srv, http.MethodPost, "/api/clients", map[string]any{
		"firstName": "A", "lastName": "B", "email": "a@example.org",
	}))
	clientID := saved["ClientID"].(string)

	rec := doJSON(t, srv, http.MethodPost, "/api/pets", map[string]any{
		"ClientID": clientID,
		"pets": []map[string]any{
			{"Name": "Rex", "Species": "Dog"},
			{"Name": "Gone", "Species": "Dog", "Deceased": true},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(2), body["inserts"])
	assert.Equal(t, float64(0), body["updates"])

	rec = doJSON(t, srv, http.MethodPost, "/api/pets/list", map[string]any{
		"ClientID": clientID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decodeBody(t, rec)
	pets, ok := listed["pets"].([]any)
	require.True(t, ok)
	require.Len(t, pets, 1)
	assert.Equal(t, "Rex", pets[0].(map[string]any)["Name"])
}

func TestCreateOrderEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	saved := decodeBody(t, doJSON(t, srv, http.MethodPost, "/api/clients", map[string]any{
		"firstName": "A", "lastName": "B", "email": "a@example.org", "zip": "14211",
	}))

	rec := doJSON(t, srv, http.MethodPost, "/api/supplies", map[string]any{
		"ClientRowId": saved["rowId"],
		"Items":       map[string]any{"DryDogLbs": 5, "CatToys": 2},
		"Other":       "bird seed",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "200000000001", body["orderId"])
	assert.Equal(t, float64(3), body["lineCount"])
	assert.Equal(t, "PFL", body["program"])
}

func TestFleaTickBrandsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/flea-tick-brands", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, []any{"Frontline", "Advantix"}, body["brands"])
}

func TestActionDispatch(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/action", map[string]any{
		"action":    "saveClient",
		"firstName": "A", "lastName": "B", "email": "a@example.org",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "inserted", body["action"])

	rec = doJSON(t, srv, http.MethodPost, "/api/action", map[string]any{
		"action":   "searchClient",
		"emailRaw": "A@Example.org",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["found"])

	rec = doJSON(t, srv, http.MethodPost, "/api/action", map[string]any{
		"action": "getFleaTickBrands",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["brands"])
}

func TestActionDispatch_UnknownAction(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/action", map[string]any{
		"action": "frobnicate",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "unknown action: frobnicate", body["error"])
	assert.Equal(t, "ACT001", body["code"])
}

func TestHygieneEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	_ = doJSON(t, srv, http.MethodPost, "/api/clients", map[string]any{
		"firstName": "A", "lastName": "B", "email": "a@example.org",
	})

	rec := doJSON(t, srv, http.MethodGet, "/api/admin/hygiene", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
	report, ok := body["report"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), report["rowsScanned"])
}

func TestAuditEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	_ = doJSON(t, srv, http.MethodPost, "/api/clients", map[string]any{
		"firstName": "A", "lastName": "B", "email": "a@example.org",
	})

	rec := doJSON(t, srv, http.MethodGet, "/api/admin/audit?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	entries, ok := body["entries"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "client_inserted", entries[0].(map[string]any)["action"])

	rec = doJSON(t, srv, http.MethodGet, "/api/admin/audit?limit=nope", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
