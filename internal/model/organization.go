package model

// Organization is a charity that can receive a goal's pledge.
// The listing is read-mostly: rows are seeded at startup and never
// mutated by user requests.
type Organization struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Mission  string `db:"mission" json:"mission"`
	Category string `db:"category" json:"category"`
	Verified bool   `db:"verified" json:"verified"`
}
