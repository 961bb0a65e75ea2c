package core

import (
	"encoding/json"
	"strings"
)

// Record is a row materialized as header name → cell value. All cells are
// strings; booleans are stored as "TRUE"/"FALSE" and timestamps in the
// workbook's yyyy-MM-dd HH:mm:ss rendering.
type Record map[string]string

// ClientQuery is a client search request. Any one of the three keys is
// enough; an all-empty query short-circuits to not-found.
type ClientQuery struct {
	ClientID string `json:"clientId"`
	PhoneRaw string `json:"phoneRaw"`
	EmailRaw string `json:"emailRaw"`
}

// SearchResult is the outcome of a client search.
type SearchResult struct {
	Found  bool   `json:"found"`
	Client Record `json:"client,omitempty"`
}

// SaveAction reports which branch a client upsert took.
type SaveAction string

const (
	ActionInserted SaveAction = "inserted"
	ActionUpdated  SaveAction = "updated"
)

// SaveResult is the outcome of a client upsert. RowID is the 1-based data
// row the record landed in; it is not stable across manual row deletion.
type SaveResult struct {
	Action   SaveAction `json:"action"`
	RowID    string     `json:"rowId"`
	ClientID string     `json:"ClientID"`
}

// Pet is a single pet in a list or save-batch payload. Age and weight stay
// strings end to end; the store holds text cells and the engine never does
// arithmetic on them.
type Pet struct {
	PetID     string `json:"PetID"`
	Name      string `json:"Name"`
	Species   string `json:"Species"`
	Breed     string `json:"Breed"`
	Sex       string `json:"Sex"`
	AgeYears  string `json:"AgeYrs"`
	WeightLb  string `json:"WeightLbs"`
	Fixed     bool   `json:"Fixed"`
	Color     string `json:"Color"`
	Allergies string `json:"Allergies"`
	Notes     string `json:"Notes"`
	Deceased  bool   `json:"Deceased"`
	Rehomed   bool   `json:"Rehomed"`
}

// PetBatch is a save-pets request. ClientID is the stable key; ClientRowID
// is the legacy row-position link, honored when ClientID is absent.
type PetBatch struct {
	ClientID    string `json:"ClientID"`
	ClientRowID string `json:"ClientRowId"`
	Pets        []Pet  `json:"pets"`
}

// PetList is a list-pets request, keyed like PetBatch.
type PetList struct {
	ClientID    string `json:"ClientID"`
	ClientRowID string `json:"ClientRowId"`
}

// PetBatchResult counts what a pet upsert batch did.
type PetBatchResult struct {
	Updates int `json:"updates"`
	Inserts int `json:"inserts"`
}

// ItemQuantities carries the fixed catalog slots of a supplies request.
// A slot produces a line item only when its quantity is positive.
type ItemQuantities struct {
	DryDogLbs    float64 `json:"DryDogLbs"`
	WetDogCans   float64 `json:"WetDogCans"`
	DogTreats    float64 `json:"DogTreats"`
	DogToys      float64 `json:"DogToys"`
	DogLeashes   float64 `json:"DogLeashes"`
	DogCollars   float64 `json:"DogCollars"`
	DryCatLbs    float64 `json:"DryCatLbs"`
	WetCatCans   float64 `json:"WetCatCans"`
	CatLitterLbs float64 `json:"CatLitterLbs"`
	CatTreats    float64 `json:"CatTreats"`
	CatToys      float64 `json:"CatToys"`
	CatCollars   float64 `json:"CatCollars"`
	StrawBales   float64 `json:"StrawBales"`
	PetBeds      float64 `json:"PetBeds"`
}

// FleaTick composes the optional "Flea/Tick Meds - Species - Brand - Size"
// line. Written only when Qty is positive.
type FleaTick struct {
	Qty     float64 `json:"Qty"`
	Species string  `json:"Species"`
	Brand   string  `json:"Brand"`
	Size    string  `json:"Size"`
}

// OtherItem is the free-form catalog slot. It accepts either a full object
// or a bare string; a bare string becomes a qty-1 "each" line.
type OtherItem struct {
	ItemName string  `json:"ItemName"`
	Qty      float64 `json:"Qty"`
	Unit     string  `json:"Unit"`
	Notes    string  `json:"Notes"`
}

// UnmarshalJSON accepts both the object form and the legacy text-only form.
func (o *OtherItem) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s != "" {
			o.ItemName = s
			o.Qty = 1
			o.Unit = "each"
		}
		return nil
	}
	type plain OtherItem
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = OtherItem(p)
	return nil
}

// OrderRequest is a record-supplies request.
type OrderRequest struct {
	ClientRowID  string         `json:"ClientRowId"`
	ServiceDate  string         `json:"ServiceDate"`
	DeliveryType string         `json:"DeliveryType"`
	Notes        string         `json:"Notes"`
	Items        ItemQuantities `json:"Items"`
	FleaTick     *FleaTick      `json:"FleaTick,omitempty"`
	Other        *OtherItem     `json:"Other,omitempty"`
}

// OrderResult is the outcome of a recorded supplies order.
type OrderResult struct {
	OrderID   string `json:"orderId"`
	LineCount int    `json:"lineCount"`
	Program   string `json:"program"`
	ClientID  string `json:"clientId"`
}
