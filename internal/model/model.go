package model

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	PackEssentiel = "essentiel"
	PackPremium   = "premium"
	PackElite     = "elite"
)

// ValidStatus reports whether s is one of the three registration statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// ValidPack accepts the three pack variants plus empty (no pack chosen yet).
func ValidPack(p string) bool {
	return p == "" || p == PackEssentiel || p == PackPremium || p == PackElite
}

type Registration struct {
	ID           string    `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	Company      string    `db:"company" json:"company"`
	Role         string    `db:"role" json:"role"`
	SelectedPack string    `db:"selected_pack" json:"selectedPack"`
	NeedsVisa    bool      `db:"needs_visa" json:"needsVisa"`
	Message      string    `db:"message" json:"message"`
	Date         time.Time `db:"date" json:"date"`
	Status       string    `db:"status" json:"status"`
}

// RegistrationInput is what the wizard or the public form hands to storage.
// Id, date and status are assigned by the store, never by the caller.
type RegistrationInput struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Company      string `json:"company"`
	Role         string `json:"role"`
	SelectedPack string `json:"selectedPack"`
	NeedsVisa    bool   `json:"needsVisa"`
	Message      string `json:"message"`
}

type Pack struct {
	Variant     string   `json:"variant"`
	Title       string   `json:"title"`
	Price       string   `json:"price"`
	PriceValue  int      `json:"priceValue"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}
