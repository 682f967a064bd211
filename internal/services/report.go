package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/findworker/backend/internal/repository"
)

type ReportEarningRepo interface {
	MonthlyByWorker(ctx context.Context, workerID uuid.UUID, year int) ([]repository.MonthlyRow, error)
	MonthlyPlatform(ctx context.Context, year int) ([]repository.MonthlyRow, error)
}

// ReportService aggregates earning entries into the income reports shown to
// workers and admins.
type ReportService struct {
	Earnings ReportEarningRepo
}

func NewReportService(earnings ReportEarningRepo) *ReportService {
	return &ReportService{Earnings: earnings}
}

// MonthlyIncome is one month of a report. AmountCents sums the allocated
// amounts of tasks completed that month.
type MonthlyIncome struct {
	Month       string `json:"month"`
	AmountCents int64  `json:"amount"`
	TaskCount   int    `json:"taskCount"`
}

// Report covers one calendar year.
type Report struct {
	Year           int             `json:"year"`
	Months         []MonthlyIncome `json:"months"`
	TotalCents     int64           `json:"total"`
	CompletedTasks int             `json:"completedTasks"`
}

// WorkerReport builds the yearly income report for one worker.
func (s *ReportService) WorkerReport(ctx context.Context, workerID uuid.UUID, year int) (*Report, error) {
	rows, err := s.Earnings.MonthlyByWorker(ctx, workerID, year)
	if err != nil {
		return nil, err
	}
	return buildReport(year, rows), nil
}

// PlatformReport builds the yearly income report across all workers.
func (s *ReportService) PlatformReport(ctx context.Context, year int) (*Report, error) {
	rows, err := s.Earnings.MonthlyPlatform(ctx, year)
	if err != nil {
		return nil, err
	}
	return buildReport(year, rows), nil
}

func buildReport(year int, rows []repository.MonthlyRow) *Report {
	r := &Report{Year: year, Months: make([]MonthlyIncome, 0, len(rows))}
	for _, row := range rows {
		r.Months = append(r.Months, MonthlyIncome{
			Month:       row.Month.Format("January"),
			AmountCents: row.AmountCents,
			TaskCount:   row.TaskCount,
		})
		r.TotalCents += row.AmountCents
		r.CompletedTasks += row.TaskCount
	}
	return r
}
