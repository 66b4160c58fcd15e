package receipt

// Receipt represents a single purchase event tied to a user. Date is text
// in expected ISO form and Amount is expected non-negative, but neither is
// validated anywhere: both pass through exactly as the confirmation form
// supplied them.
type Receipt struct {
	ID       int64   `json:"id"`
	Vendor   string  `json:"vendor"`
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
	Filename string  `json:"filename"`
	UserID   string  `json:"user_id"`
}

// User represents a login account. The password is stored and compared in
// plaintext; do not reuse real credentials with it.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}
