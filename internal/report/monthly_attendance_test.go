package report

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-console/internal/models"
)

type rosterStub struct {
	teachers []models.TeacherInfo
	err      error
}

func (s *rosterStub) Teachers(ctx context.Context) ([]models.TeacherInfo, error) {
	return s.teachers, s.err
}

type saverStub struct {
	filename string
	data     []byte
}

func (s *saverStub) Save(filename string, data []byte) (string, error) {
	s.filename = filename
	s.data = data
	return "/downloads/" + filename, nil
}

func seededGenerator(roster rosterFetcher, seed int64) *MonthlyGenerator {
	return NewMonthlyGenerator(roster, rand.New(rand.NewSource(seed)), &saverStub{}, nil)
}

func TestBuildMonthJanuary2025(t *testing.T) {
	g := seededGenerator(nil, 1)
	tm := g.BuildMonth(models.TeacherInfo{Name: "Abdul Karim"}, 2025, time.January)

	require.Len(t, tm.Days, 31)

	// January 2025 has five Fridays and four Saturdays.
	assert.Equal(t, 9, tm.Summary.HolidayDays)
	assert.Equal(t, 22, tm.Summary.WorkingDays)

	total := tm.Summary.PresentDays + tm.Summary.AbsentDays + tm.Summary.LateDays +
		tm.Summary.EarlyExitDays + tm.Summary.HalfDays + tm.Summary.HolidayDays
	assert.Equal(t, 31, total, "per-status counts must cover every calendar day")
}

func TestBuildMonthWeekendDaysAreHolidays(t *testing.T) {
	g := seededGenerator(nil, 2)
	tm := g.BuildMonth(models.TeacherInfo{Name: "Abdul Karim"}, 2025, time.March)

	for _, d := range tm.Days {
		wd := d.Date.Weekday()
		if wd == time.Friday || wd == time.Saturday {
			assert.Equal(t, StatusHoliday, d.Status, "%s must be a holiday", d.Date.Format("2006-01-02"))
			assert.Empty(t, d.Entry)
			assert.Empty(t, d.Exit)
		} else {
			assert.NotEqual(t, StatusHoliday, d.Status)
			if d.Status != StatusAbsent {
				assert.NotEmpty(t, d.Entry)
				assert.NotEmpty(t, d.Exit)
			}
		}
	}
}

func TestBuildMonthPercentageFormula(t *testing.T) {
	g := seededGenerator(nil, 3)
	tm := g.BuildMonth(models.TeacherInfo{Name: "Abdul Karim"}, 2025, time.January)

	s := tm.Summary
	want := (float64(s.PresentDays) + 0.5*float64(s.HalfDays)) / float64(s.WorkingDays) * 100
	assert.InDelta(t, want, s.Percentage, 0.001)
}

func TestBuildMonthSeededDeterminism(t *testing.T) {
	teacher := models.TeacherInfo{Name: "Abdul Karim", ScheduledEntry: "08:30"}
	a := seededGenerator(nil, 7).BuildMonth(teacher, 2025, time.January)
	b := seededGenerator(nil, 7).BuildMonth(teacher, 2025, time.January)
	assert.Equal(t, a, b)

	c := seededGenerator(nil, 8).BuildMonth(teacher, 2025, time.January)
	assert.NotEqual(t, a.Days, c.Days, "different seeds should redraw the month")
}

func TestGenerateCSVLayout(t *testing.T) {
	roster := &rosterStub{teachers: []models.TeacherInfo{
		{ID: "1", Name: "Abdul Karim"},
		{ID: "2", Name: "Fatema Begum"},
	}}
	saver := &saverStub{}
	g := NewMonthlyGenerator(roster, rand.New(rand.NewSource(11)), saver, nil)

	path, err := g.Generate(context.Background(), 2025, time.January, FormatCSV)
	require.NoError(t, err)
	assert.Contains(t, path, "teacher-attendance")
	assert.Contains(t, saver.filename, "2025-01")
	assert.True(t, strings.HasSuffix(saver.filename, ".csv"))

	body := string(saver.data)
	assert.Contains(t, body, "MONTHLY TEACHER ATTENDANCE SUMMARY - January 2025")
	assert.Contains(t, body, "DAILY LOG - Abdul Karim")
	assert.Contains(t, body, "DAILY LOG - Fatema Begum")
}

func TestGenerateUnsupportedFormat(t *testing.T) {
	g := NewMonthlyGenerator(&rosterStub{}, rand.New(rand.NewSource(1)), &saverStub{}, nil)
	_, err := g.Generate(context.Background(), 2025, time.January, Format("doc"))
	assert.Error(t, err)
}

func TestGenerateRosterFailurePropagates(t *testing.T) {
	g := NewMonthlyGenerator(&rosterStub{err: assert.AnError}, rand.New(rand.NewSource(1)), &saverStub{}, nil)
	_, err := g.Generate(context.Background(), 2025, time.January, FormatCSV)
	assert.ErrorIs(t, err, assert.AnError)
}
