package reports

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

type Service struct {
	repo RepositoryPort
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Summarize runs the aggregate queries for one month concurrently and
// assembles the result.
func (s *Service) Summarize(ctx context.Context, period string) (*Summary, error) {
	from, to, err := periodBounds(period)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Period: period}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary.Headcount, err = s.repo.Headcount(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		summary.AttendanceDays, summary.LateDays, err = s.repo.AttendanceCounts(gctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		summary.PendingLeave, summary.ApprovedLeave, err = s.repo.LeaveCounts(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

// WriteAttendanceCSV streams the month's attendance records as CSV.
func (s *Service) WriteAttendanceCSV(ctx context.Context, w io.Writer, period string) error {
	from, to, err := periodBounds(period)
	if err != nil {
		return err
	}
	rows, err := s.repo.AttendanceRows(ctx, from, to)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"employee", "day", "clock_in", "clock_out", "status", "worked_minutes"}); err != nil {
		return err
	}
	for _, row := range rows {
		clockOut := ""
		worked := ""
		if !row.ClockOutAt.IsZero() {
			clockOut = row.ClockOutAt.Format(time.RFC3339)
			worked = strconv.Itoa(int(row.ClockOutAt.Sub(row.ClockInAt).Minutes()))
		}
		record := []string{
			row.EmployeeName,
			row.Day.Format("2006-01-02"),
			row.ClockInAt.Format(time.RFC3339),
			clockOut,
			row.Status,
			worked,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
