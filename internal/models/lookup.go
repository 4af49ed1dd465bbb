package models

// Option is the generic shape of a reference lookup entry used to populate
// dropdowns: sessions, classes, sections, batches, branches, exam
// categories, exam halls and bank accounts all decode into it.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeacherInfo mirrors one teacher roster entry. ScheduledEntry is the
// expected clock-in time in HH:MM, used by the monthly attendance report.
type TeacherInfo struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Designation    string `json:"designation,omitempty"`
	Phone          string `json:"phone,omitempty"`
	ScheduledEntry string `json:"scheduledEntry,omitempty"`
}

// ExamSlot mirrors one exam timetable row.
type ExamSlot struct {
	ID        string `json:"id"`
	ExamName  string `json:"examName"`
	Subject   string `json:"subject"`
	ClassName string `json:"className"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// FacebookPage mirrors the school's configured social page record.
type FacebookPage struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}
