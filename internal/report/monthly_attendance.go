package report

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/pkg/export"
	"github.com/noah-isme/sma-admin-console/pkg/storage"
)

// DayStatus classifies one calendar day in a teacher's month.
type DayStatus string

const (
	StatusPresent   DayStatus = "present"
	StatusAbsent    DayStatus = "absent"
	StatusLate      DayStatus = "late"
	StatusEarlyExit DayStatus = "early_exit"
	StatusHalfDay   DayStatus = "half_day"
	StatusHoliday   DayStatus = "holiday"
)

// Weekend convention: Friday and Saturday are holidays.
func isWeekendHoliday(day time.Weekday) bool {
	return day == time.Friday || day == time.Saturday
}

// statusWeights is the fixed discrete distribution drawn for working days.
var statusWeights = []struct {
	status DayStatus
	weight float64
}{
	{StatusPresent, 0.70},
	{StatusLate, 0.10},
	{StatusAbsent, 0.08},
	{StatusHalfDay, 0.07},
	{StatusEarlyExit, 0.05},
}

// DayRecord is one synthesized day.
type DayRecord struct {
	Date   time.Time
	Status DayStatus
	Entry  string
	Exit   string
}

// MonthSummary aggregates per-status day counts. The counts always sum to
// the number of days in the month.
type MonthSummary struct {
	PresentDays   int
	AbsentDays    int
	LateDays      int
	EarlyExitDays int
	HalfDays      int
	HolidayDays   int
	WorkingDays   int
	Percentage    float64
}

// TeacherMonth is one teacher's synthesized month.
type TeacherMonth struct {
	Teacher models.TeacherInfo
	Days    []DayRecord
	Summary MonthSummary
}

// Format selects the rendered output type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

const (
	defaultEntry = "09:00"
	workDay      = 8 * time.Hour
	halfWorkDay  = 4 * time.Hour
	clockLayout  = "15:04"
)

type rosterFetcher interface {
	Teachers(ctx context.Context) ([]models.TeacherInfo, error)
}

type fileSaver interface {
	Save(filename string, data []byte) (string, error)
}

// MonthlyGenerator synthesizes the monthly teacher attendance report. Apart
// from the initial roster fetch the generation is pure: each working day
// draws a weighted-random status and plausible entry/exit clock times from
// the injected random source. Production redraws on every invocation, so
// repeated downloads for the same month differ in per-day values while the
// weekend arithmetic stays fixed; tests inject a seeded source.
type MonthlyGenerator struct {
	roster rosterFetcher
	rng    *rand.Rand
	csv    *export.CSVExporter
	xlsx   *export.XLSXExporter
	pdf    *export.PDFExporter
	saver  fileSaver
	logger *zap.Logger
}

// NewMonthlyGenerator constructs the generator. A nil rng falls back to a
// time-seeded source.
func NewMonthlyGenerator(roster rosterFetcher, rng *rand.Rand, saver fileSaver, logger *zap.Logger) *MonthlyGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MonthlyGenerator{
		roster: roster,
		rng:    rng,
		csv:    export.NewCSVExporter(),
		xlsx:   export.NewXLSXExporter(),
		pdf:    export.NewPDFExporter(),
		saver:  saver,
		logger: logger,
	}
}

// Generate fetches the teacher roster, synthesizes every teacher's month,
// renders the requested format and saves it under a filename encoding the
// period. It returns the saved path.
func (g *MonthlyGenerator) Generate(ctx context.Context, year int, month time.Month, format Format) (string, error) {
	teachers, err := g.roster.Teachers(ctx)
	if err != nil {
		return "", err
	}
	months := make([]TeacherMonth, 0, len(teachers))
	for _, t := range teachers {
		months = append(months, g.BuildMonth(t, year, month))
	}

	sections := Sections(months, year, month)
	title := fmt.Sprintf("Teacher attendance %s %d", month, year)

	var payload []byte
	switch format {
	case FormatCSV, "":
		format = FormatCSV
		payload, err = g.csv.RenderSections(sections)
	case FormatXLSX:
		payload, err = g.xlsx.RenderSections(sections, "Attendance")
	case FormatPDF:
		payload, err = g.pdf.Render(summaryDataset(months), title, export.OrientationLandscape)
	default:
		return "", fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		return "", err
	}

	filename := storage.Filename(string(format), "teacher-attendance", fmt.Sprintf("%04d-%02d", year, int(month)))
	path, err := g.saver.Save(filename, payload)
	if err != nil {
		return "", err
	}
	g.logger.Info("monthly attendance report generated",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("teachers", len(months)),
		zap.String("path", path))
	return path, nil
}

// BuildMonth synthesizes one teacher's calendar month. Fridays and Saturdays
// are holidays; every other day draws from the fixed status distribution.
func (g *MonthlyGenerator) BuildMonth(teacher models.TeacherInfo, year int, month time.Month) TeacherMonth {
	scheduled := scheduledEntry(teacher)
	days := daysInMonth(year, month)

	tm := TeacherMonth{Teacher: teacher, Days: make([]DayRecord, 0, days)}
	for dayNum := 1; dayNum <= days; dayNum++ {
		date := time.Date(year, month, dayNum, 0, 0, 0, 0, time.UTC)
		record := DayRecord{Date: date}
		if isWeekendHoliday(date.Weekday()) {
			record.Status = StatusHoliday
		} else {
			record.Status = g.drawStatus()
			record.Entry, record.Exit = g.clockTimes(record.Status, scheduled)
		}
		tm.Days = append(tm.Days, record)
		tm.Summary.count(record.Status)
	}

	tm.Summary.WorkingDays = days - tm.Summary.HolidayDays
	if tm.Summary.WorkingDays > 0 {
		attended := float64(tm.Summary.PresentDays) + 0.5*float64(tm.Summary.HalfDays)
		tm.Summary.Percentage = attended / float64(tm.Summary.WorkingDays) * 100
	}
	return tm
}

func (s *MonthSummary) count(status DayStatus) {
	switch status {
	case StatusPresent:
		s.PresentDays++
	case StatusAbsent:
		s.AbsentDays++
	case StatusLate:
		s.LateDays++
	case StatusEarlyExit:
		s.EarlyExitDays++
	case StatusHalfDay:
		s.HalfDays++
	case StatusHoliday:
		s.HolidayDays++
	}
}

func (g *MonthlyGenerator) drawStatus() DayStatus {
	r := g.rng.Float64()
	cumulative := 0.0
	for _, w := range statusWeights {
		cumulative += w.weight
		if r < cumulative {
			return w.status
		}
	}
	return statusWeights[len(statusWeights)-1].status
}

// clockTimes derives entry/exit stamps as bounded random offsets from the
// teacher's scheduled time. Absent days carry no stamps.
func (g *MonthlyGenerator) clockTimes(status DayStatus, scheduled time.Time) (string, string) {
	offset := func(minMin, maxMin int) time.Duration {
		return time.Duration(minMin+g.rng.Intn(maxMin-minMin+1)) * time.Minute
	}
	switch status {
	case StatusPresent:
		entry := scheduled.Add(offset(-10, 5))
		exit := scheduled.Add(workDay).Add(offset(0, 30))
		return entry.Format(clockLayout), exit.Format(clockLayout)
	case StatusLate:
		entry := scheduled.Add(offset(5, 45))
		exit := scheduled.Add(workDay).Add(offset(0, 20))
		return entry.Format(clockLayout), exit.Format(clockLayout)
	case StatusEarlyExit:
		entry := scheduled.Add(offset(-10, 5))
		exit := scheduled.Add(workDay).Add(-offset(30, 90))
		return entry.Format(clockLayout), exit.Format(clockLayout)
	case StatusHalfDay:
		entry := scheduled.Add(offset(-10, 5))
		exit := scheduled.Add(halfWorkDay).Add(offset(0, 15))
		return entry.Format(clockLayout), exit.Format(clockLayout)
	default:
		return "", ""
	}
}

func scheduledEntry(teacher models.TeacherInfo) time.Time {
	raw := teacher.ScheduledEntry
	if raw == "" {
		raw = defaultEntry
	}
	parsed, err := time.Parse(clockLayout, raw)
	if err != nil {
		parsed, _ = time.Parse(clockLayout, defaultEntry)
	}
	return parsed
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

var summaryHeaders = []string{"Teacher", "Present", "Absent", "Late", "Early Exit", "Half Day", "Holiday", "Working Days", "Attendance %"}
var dailyHeaders = []string{"Date", "Day", "Status", "Entry", "Exit"}

// Sections lays the report out with its fixed section headers: a summary
// table followed by one daily log per teacher.
func Sections(months []TeacherMonth, year int, month time.Month) []export.Section {
	sections := []export.Section{{
		Title: fmt.Sprintf("MONTHLY TEACHER ATTENDANCE SUMMARY - %s %d", month, year),
		Data:  summaryDataset(months),
	}}
	for _, tm := range months {
		rows := make([]map[string]string, 0, len(tm.Days))
		for _, d := range tm.Days {
			rows = append(rows, map[string]string{
				"Date":   d.Date.Format("2006-01-02"),
				"Day":    d.Date.Weekday().String(),
				"Status": string(d.Status),
				"Entry":  dash(d.Entry),
				"Exit":   dash(d.Exit),
			})
		}
		sections = append(sections, export.Section{
			Title: fmt.Sprintf("DAILY LOG - %s", tm.Teacher.Name),
			Data:  export.Dataset{Headers: dailyHeaders, Rows: rows},
		})
	}
	return sections
}

func summaryDataset(months []TeacherMonth) export.Dataset {
	rows := make([]map[string]string, 0, len(months))
	for _, tm := range months {
		s := tm.Summary
		rows = append(rows, map[string]string{
			"Teacher":      tm.Teacher.Name,
			"Present":      fmt.Sprintf("%d", s.PresentDays),
			"Absent":       fmt.Sprintf("%d", s.AbsentDays),
			"Late":         fmt.Sprintf("%d", s.LateDays),
			"Early Exit":   fmt.Sprintf("%d", s.EarlyExitDays),
			"Half Day":     fmt.Sprintf("%d", s.HalfDays),
			"Holiday":      fmt.Sprintf("%d", s.HolidayDays),
			"Working Days": fmt.Sprintf("%d", s.WorkingDays),
			"Attendance %": fmt.Sprintf("%.1f", s.Percentage),
		})
	}
	return export.Dataset{Headers: summaryHeaders, Rows: rows}
}

func dash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
