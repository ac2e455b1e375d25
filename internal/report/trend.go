package report

import (
	"time"

	"github.com/bizhub/backoffice/internal/models"
)

// TrendBuckets is the fixed number of calendar months in the trend series
const TrendBuckets = 6

// TrendSeries holds three parallel arrays for the month-over-month chart,
// oldest bucket first, ending at the reference month. Rendering the arrays
// into an image is the caller's concern.
type TrendSeries struct {
	Labels       []string  `json:"labels"`
	Revenues     []float64 `json:"revenues"`
	Expenditures []float64 `json:"expenditures"`
}

// BuildTrend computes the 6-bucket revenue vs expenditure series ending at
// the month of the reference instant. Bucket edges are calendar-aligned:
// each bucket runs from the first of its month to the first of the next,
// so variable month lengths are handled exactly.
func BuildTrend(jobs []models.Job, expenditures []models.Expenditure, now time.Time) TrendSeries {
	series := TrendSeries{
		Labels:       make([]string, 0, TrendBuckets),
		Revenues:     make([]float64, 0, TrendBuckets),
		Expenditures: make([]float64, 0, TrendBuckets),
	}

	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	for i := TrendBuckets - 1; i >= 0; i-- {
		bucketStart := currentMonth.AddDate(0, -i, 0)
		bucketEnd := bucketStart.AddDate(0, 1, 0)
		bucket := Window{Start: bucketStart, End: bucketEnd, HasStart: true, HasEnd: true}

		var revenue float64
		for _, job := range jobs {
			if job.Status != models.JobStatusCompleted || !bucket.Contains(job.DateTime) {
				continue
			}
			for _, item := range job.Items {
				revenue += item.Total
			}
		}

		var spent float64
		for _, exp := range expenditures {
			if bucket.Contains(exp.DateTime) {
				spent += exp.Total
			}
		}

		series.Labels = append(series.Labels, bucketStart.Format("Jan 2006"))
		series.Revenues = append(series.Revenues, revenue)
		series.Expenditures = append(series.Expenditures, spent)
	}

	return series
}
