package schema

// Pet column headers. PetName and Re-homed are legacy spellings carried
// over from the workbook; do not "fix" them.
const (
	PetID          = "PetID"
	PetClientID    = "ClientID"
	PetClientRowID = "ClientRowId"
	PetName        = "PetName"
	Species        = "Species"
	Breed          = "Breed"
	Sex            = "Sex"
	AgeYears       = "AgeYears"
	WeightLb       = "WeightLb"
	SpayNeuter     = "SpayNeuterStatus"
	Color          = "Color"
	Allergies      = "Allergies"
	PetNotes       = "Notes"
	Deceased       = "Deceased"
	Rehomed        = "Re-homed"
	PetCreatedAt   = "CreatedAt"
	PetCreatedBy   = "CreatedBy"
	PetUpdatedAt   = "UpdatedAt"
	PetUpdatedBy   = "UpdatedBy"
)

// PetColumns is the full pet column set in header order.
//
// PetClientID is the stable foreign key; PetClientRowID is the legacy
// row-position link kept for rows written before the stable key existed.
var PetColumns = []string{
	PetID, PetClientID, PetClientRowID, PetName, Species, Breed, Sex,
	AgeYears, WeightLb, SpayNeuter, Color, Allergies, PetNotes,
	Deceased, Rehomed,
	PetCreatedAt, PetCreatedBy, PetUpdatedAt, PetUpdatedBy,
}
