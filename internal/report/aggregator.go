package report

import (
	"time"

	"github.com/bizhub/backoffice/internal/models"
)

// Summary holds the dashboard aggregates for a reference instant. Counts
// and sums default to zero when nothing matches; NetBalance may be
// negative.
type Summary struct {
	JobsToday          int     `json:"jobs_today"`
	JobsTodayCompleted int     `json:"jobs_today_completed"`
	JobsWeek           int     `json:"jobs_week"`
	JobsMonth          int     `json:"jobs_month"`
	IncompleteJobs     int     `json:"incomplete_jobs"`
	ExpendituresToday  float64 `json:"expenditures_today"`
	ExpendituresMonth  float64 `json:"expenditures_month"`
	RevenueMonth       float64 `json:"revenue_month"`
	NetBalance         float64 `json:"net_balance"`
}

// Aggregate folds full job and expenditure snapshots into the dashboard
// summary for the given reference instant. The snapshots are read-only;
// each call recomputes from scratch.
func Aggregate(jobs []models.Job, expenditures []models.Expenditure, now time.Time) Summary {
	dayWindow := Resolve(FilterToday, now)
	weekWindow := Resolve(FilterWeek, now)
	monthWindow := Resolve(FilterMonth, now)

	var s Summary

	for _, job := range jobs {
		completed := job.Status == models.JobStatusCompleted

		if dayWindow.Contains(job.DateTime) {
			s.JobsToday++
			if completed {
				s.JobsTodayCompleted++
			}
		}
		if completed && weekWindow.Contains(job.DateTime) {
			s.JobsWeek++
		}
		if completed && monthWindow.Contains(job.DateTime) {
			s.JobsMonth++
			for _, item := range job.Items {
				s.RevenueMonth += item.Total
			}
		}
		if !completed {
			s.IncompleteJobs++
		}
	}

	for _, exp := range expenditures {
		if dayWindow.Contains(exp.DateTime) {
			s.ExpendituresToday += exp.Total
		}
		if monthWindow.Contains(exp.DateTime) {
			s.ExpendituresMonth += exp.Total
		}
	}

	s.NetBalance = s.RevenueMonth - s.ExpendituresMonth
	return s
}
