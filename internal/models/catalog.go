package models

// PaymentType mirrors one fee payment type record.
type PaymentType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// BlogCategory mirrors one blog category record.
type BlogCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// SeatArrangement mirrors one exam-hall seat arrangement record.
type SeatArrangement struct {
	ID        string `json:"id"`
	ClassName string `json:"className"`
	Section   string `json:"section"`
	ExamName  string `json:"examName,omitempty"`
	HallName  string `json:"hallName"`
	StartRoll int    `json:"startRoll"`
	EndRoll   int    `json:"endRoll"`
}

// TotalSeats mirrors one per-class seat capacity record.
type TotalSeats struct {
	ID        string `json:"id"`
	ClassName string `json:"className"`
	Session   string `json:"session"`
	Seats     int    `json:"seats"`
}

// CombinedResult mirrors one combined exam result configuration.
type CombinedResult struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ClassName string   `json:"className"`
	Session   string   `json:"session"`
	ExamNames []string `json:"examNames,omitempty"`
	Published bool     `json:"published"`
}
