package models

// LeaveStatus represents the workflow state of a leave application.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// Valid returns true when the status is a supported value.
func (s LeaveStatus) Valid() bool {
	switch s {
	case LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected:
		return true
	default:
		return false
	}
}

// Transitions lists the statuses the current status offers as actions. Only
// pending applications offer approve and reject; the backend enforces the
// actual transition rules.
func (s LeaveStatus) Transitions() []LeaveStatus {
	if s == LeaveStatusPending {
		return []LeaveStatus{LeaveStatusApproved, LeaveStatusRejected}
	}
	return nil
}

// LeaveApplication mirrors one employee leave record.
type LeaveApplication struct {
	ID           string      `json:"id"`
	EmployeeName string      `json:"employeeName"`
	Phone        string      `json:"phone,omitempty"`
	LeaveType    string      `json:"leaveType,omitempty"`
	StartDate    string      `json:"startDate"`
	EndDate      string      `json:"endDate"`
	Reason       string      `json:"reason,omitempty"`
	Status       LeaveStatus `json:"status"`
}

// LeaveStats aggregates the summary endpoint's counters.
type LeaveStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}
