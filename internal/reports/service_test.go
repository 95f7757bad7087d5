package reports

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReportsRepo struct {
	headcount     int
	attendance    int
	late          int
	pending       int
	approved      int
	rows          []AttendanceRow
	headcountErr  error
	attendanceErr error

	from time.Time
	to   time.Time
}

func (r *stubReportsRepo) Headcount(ctx context.Context) (int, error) {
	return r.headcount, r.headcountErr
}

func (r *stubReportsRepo) AttendanceCounts(ctx context.Context, from, to time.Time) (int, int, error) {
	r.from, r.to = from, to
	return r.attendance, r.late, r.attendanceErr
}

func (r *stubReportsRepo) LeaveCounts(ctx context.Context, from, to time.Time) (int, int, error) {
	return r.pending, r.approved, nil
}

func (r *stubReportsRepo) AttendanceRows(ctx context.Context, from, to time.Time) ([]AttendanceRow, error) {
	r.from, r.to = from, to
	return r.rows, nil
}

func TestSummarize(t *testing.T) {
	repo := &stubReportsRepo{headcount: 12, attendance: 220, late: 9, pending: 3, approved: 7}
	svc := NewService(repo)

	summary, err := svc.Summarize(context.Background(), "2026-03")
	require.NoError(t, err)
	assert.Equal(t, &Summary{
		Period:         "2026-03",
		Headcount:      12,
		AttendanceDays: 220,
		LateDays:       9,
		PendingLeave:   3,
		ApprovedLeave:  7,
	}, summary)

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), repo.from)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), repo.to)
}

func TestSummarizeInvalidPeriod(t *testing.T) {
	svc := NewService(&stubReportsRepo{})

	for _, period := range []string{"", "2026", "2026-00", "2026-3", "march"} {
		_, err := svc.Summarize(context.Background(), period)
		assert.ErrorIs(t, err, ErrInvalidPeriod, "period %q", period)
	}
}

func TestSummarizePropagatesQueryErrors(t *testing.T) {
	repo := &stubReportsRepo{attendanceErr: errors.New("query timeout")}
	svc := NewService(repo)

	_, err := svc.Summarize(context.Background(), "2026-03")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query timeout")
}

func TestWriteAttendanceCSV(t *testing.T) {
	in := time.Date(2026, 3, 2, 8, 55, 0, 0, time.UTC)
	out := time.Date(2026, 3, 2, 17, 25, 0, 0, time.UTC)
	repo := &stubReportsRepo{rows: []AttendanceRow{
		{EmployeeName: "Dana Hong", Day: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), ClockInAt: in, ClockOutAt: out, Status: "present"},
		{EmployeeName: "Ravi Patel", Day: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), ClockInAt: in.Add(30 * time.Minute), Status: "late"},
	}}
	svc := NewService(repo)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteAttendanceCSV(context.Background(), &buf, "2026-03"))

	want := "employee,day,clock_in,clock_out,status,worked_minutes\n" +
		"Dana Hong,2026-03-02,2026-03-02T08:55:00Z,2026-03-02T17:25:00Z,present,510\n" +
		"Ravi Patel,2026-03-02,2026-03-02T09:25:00Z,,late,\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteAttendanceCSVInvalidPeriod(t *testing.T) {
	svc := NewService(&stubReportsRepo{})

	var buf bytes.Buffer
	err := svc.WriteAttendanceCSV(context.Background(), &buf, "bogus")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	assert.Zero(t, buf.Len())
}
