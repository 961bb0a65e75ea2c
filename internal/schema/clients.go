// Package schema is the static registry of header names per entity table.
// Names must match the workbook headers exactly, including the legacy
// free-text ones; the engines address columns only through these constants.
package schema

// Client column headers.
const (
	ClientID           = "ClientID"
	PrimaryContactName = "PrimaryContactName"
	FirstName          = "FirstName"
	LastName           = "LastName"
	Address1           = "Address1"
	Address2           = "Address2"
	City               = "City"
	State              = "State"
	ZIP                = "ZIP"
	Phone              = "Phone"
	PhoneNormalized    = "PhoneNormalized"
	Email              = "Email"
	EmailNormalized    = "EmailNormalized"
	PreferredContact   = "PreferredContact"
	ConsentEmail       = "ConsentEmail"
	ConsentSMS         = "ConsentSMS"
	ConsentNote        = "ConsentNote"
	ConsentTimestamp   = "ConsentTimestamp"
	ReturningClient    = "Returning Client"
	HowHeard           = "How did you hear about us?"
	Language           = "Language"
	MilitaryStatus     = "Military Status"
	Employment         = "Employment"
	EthnicBackground   = "Ethnic Background"
	Transportation     = "Transportation"
	GenderIdentity     = "Gender Identity"
	PublicServices     = "Public Services"
	Income             = "Income"
	IncomeContribution = "Income Contribution"
	HouseholdSize      = "Household Size"
	HousingStatus      = "Housing Status"
	DemographicNotes   = "DemographicNotes"
	FirstSeenSource    = "FirstSeenSource"
	FirstSeenAt        = "FirstSeenAt"
	LastSeenAt         = "LastSeenAt"
	Notes              = "Notes"
	UniqueKey          = "UniqueKey"
	CreatedAt          = "CreatedAt"
	CreatedBy          = "CreatedBy"
	UpdatedAt          = "UpdatedAt"
	UpdatedBy          = "UpdatedBy"
)

// ClientColumns is the full client column set in header order,
// used to initialize or extend the Clients table.
var ClientColumns = []string{
	ClientID, PrimaryContactName, FirstName, LastName,
	Address1, Address2, City, State, ZIP,
	Phone, PhoneNormalized, Email, EmailNormalized,
	PreferredContact, ConsentEmail, ConsentSMS, ConsentNote, ConsentTimestamp,
	ReturningClient, HowHeard, Language, MilitaryStatus, Employment,
	EthnicBackground, Transportation, GenderIdentity, PublicServices,
	Income, IncomeContribution, HouseholdSize, HousingStatus, DemographicNotes,
	FirstSeenSource, FirstSeenAt, LastSeenAt, Notes, UniqueKey,
	CreatedAt, CreatedBy, UpdatedAt, UpdatedBy,
}

// ClientSearchColumns are the identity/contact columns the search path needs.
var ClientSearchColumns = []string{
	ClientID, Phone, PhoneNormalized, Email, EmailNormalized,
}

// ClientProbeColumns decide whether a data row counts as blank for
// gap-filling inserts.
var ClientProbeColumns = []string{
	FirstName, LastName, PhoneNormalized, EmailNormalized,
}

// ClientAliases maps the shorthand (camelCase) request keys onto canonical
// headers. Mapping is non-destructive: a canonical key already present in
// the payload wins over its shorthand.
var ClientAliases = map[string]string{
	"rowId":            "RowId",
	"firstName":        FirstName,
	"lastName":         LastName,
	"addr1":            Address1,
	"addr2":            Address2,
	"city":             City,
	"state":            State,
	"zip":              ZIP,
	"phone":            Phone,
	"phoneRaw":         PhoneNormalized,
	"email":            Email,
	"emailRaw":         EmailNormalized,
	"preferredContact": PreferredContact,
	"consentEmail":     ConsentEmail,
	"consentSMS":       ConsentSMS,
	"clientId":         ClientID,
}
