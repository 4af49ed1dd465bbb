package models

// Headmaster mirrors one headmaster record. The backend enforces that at
// most one record is current at any time; set-as-current demotes the
// previous holder server-side and the client simply re-fetches.
type Headmaster struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Tenure   string `json:"tenure,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
	Current  bool   `json:"current"`
	Active   bool   `json:"active"`
}
