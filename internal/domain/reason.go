package domain

// Reason is a named fine category with a suggested default amount.
// Fines copy the reason name as text; they do not reference a Reason.
type Reason struct {
	ID     int64  `json:"id"`
	Naam   string `json:"naam"`
	Bedrag Amount `json:"bedrag"`
}

// NewReason holds the validated fields of a reason before the store assigns an id.
type NewReason struct {
	Naam   string
	Bedrag Amount
}
