package forecast

import (
	"math"
	"time"

	"salespipeline/internal/models"
)

// AverageHistoricalDurationDays is the mean of ceil(updated-created) in days
// over closed_won deals. ok is false when no deal has both dates.
func AverageHistoricalDurationDays(closedWon []models.Deal) (avg float64, ok bool) {
	var total float64
	n := 0
	for _, d := range closedWon {
		if d.CreatedDate == nil || d.UpdatedDate == nil {
			continue
		}
		total += math.Ceil(float64(d.UpdatedDate.Sub(*d.CreatedDate)) / float64(day))
		n++
	}
	if n == 0 {
		return 0, false
	}
	return total / float64(n), true
}

// PredictedCloseDate returns the later of the expected close date and
// created+avg. Without history the expected close date is used as is.
func PredictedCloseDate(d models.Deal, avg float64, ok bool) (time.Time, bool) {
	if d.ExpectedCloseDate == nil {
		return time.Time{}, false
	}
	expected := d.ExpectedCloseDate.UTC()
	if !ok || d.CreatedDate == nil {
		return expected, true
	}
	predicted := d.CreatedDate.UTC().Add(time.Duration(avg * float64(day)))
	if predicted.After(expected) {
		return predicted, true
	}
	return expected, true
}
