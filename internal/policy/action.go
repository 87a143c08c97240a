package policy

// Action describes the kind of operation an identity wants to perform on an
// apartment.
type Action string

const (
	// ActionReadApartment covers reading apartment details.
	ActionReadApartment Action = "apartment:read"
	// ActionWriteApartment covers apartment create/update/delete and admin
	// reassignment.
	ActionWriteApartment Action = "apartment:write"
	// ActionReadPermits covers checking and listing the parking ledger.
	ActionReadPermits Action = "permits:read"
	// ActionWritePermits covers adding, updating and removing permits.
	ActionWritePermits Action = "permits:write"
)
