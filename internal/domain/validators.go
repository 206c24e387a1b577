package domain

import "strings"

// OtherReason is the reason picked in the admin form when the treasurer types
// a free-text reason instead of choosing a configured one.
const OtherReason = "Anders"

// FineInput is the payload of a fine creation request.
type FineInput struct {
	Speler      string  `json:"speler"`
	Bedrag      *Amount `json:"bedrag"`
	Reden       string  `json:"reden"`
	CustomReden string  `json:"customReden,omitempty"`
}

// Validate checks the payload and returns the normalized fine.
func (in FineInput) Validate() (NewFine, error) {
	speler := strings.TrimSpace(in.Speler)
	if speler == "" {
		return NewFine{}, ErrValidation("speler is verplicht")
	}
	if in.Bedrag == nil {
		return NewFine{}, ErrValidation("bedrag is verplicht")
	}
	if err := in.Bedrag.Validate(); err != nil {
		return NewFine{}, err
	}

	reden := strings.TrimSpace(in.Reden)
	if reden == OtherReason {
		reden = strings.TrimSpace(in.CustomReden)
		if reden == "" {
			return NewFine{}, ErrValidation("eigen reden is verplicht")
		}
	}
	if reden == "" {
		return NewFine{}, ErrValidation("reden is verplicht")
	}

	return NewFine{Speler: speler, Bedrag: *in.Bedrag, Reden: reden}, nil
}

// ReasonInput is the payload of a reason creation request.
type ReasonInput struct {
	Naam   string  `json:"naam"`
	Bedrag *Amount `json:"bedrag"`
}

// Validate checks the payload; an omitted bedrag falls back to def.
func (in ReasonInput) Validate(def Amount) (NewReason, error) {
	naam := strings.TrimSpace(in.Naam)
	if naam == "" {
		return NewReason{}, ErrValidation("Reden naam is verplicht")
	}
	bedrag := def
	if in.Bedrag != nil {
		bedrag = *in.Bedrag
	}
	if err := bedrag.Validate(); err != nil {
		return NewReason{}, err
	}
	return NewReason{Naam: naam, Bedrag: bedrag}, nil
}

// ValidatePlayerName trims the name and rejects empty or whitespace-only input.
func ValidatePlayerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrValidation("Speler naam is verplicht")
	}
	return name, nil
}
