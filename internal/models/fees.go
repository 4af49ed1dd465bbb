package models

// CollectedFeeMonth is one month's aggregate from the collected-fee report.
type CollectedFeeMonth struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// DueFeeRecord is one student row from the due-fee SMS search.
type DueFeeRecord struct {
	StudentID string  `json:"studentId"`
	Name      string  `json:"name"`
	ClassName string  `json:"className,omitempty"`
	Phone     string  `json:"phone"`
	Amount    float64 `json:"amount"`
}
