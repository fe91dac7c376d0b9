package crawl

import (
	"time"

	"listing-radar/internal/domain/listing"
)

// historyRunsForAverage is how many successful runs the historical
// path averages over. Fewer than this and the estimator falls back to
// the in-flight elapsed/done ratio.
const historyRunsForAverage = 3

// EstimateMinutes computes the remaining-time estimate for the crawl in
// snap, in whole minutes rounded up. history must be ordered most
// recent first (completed_at desc). Returns nil when no crawl is
// running or when neither the historical nor the in-flight path has
// enough data. Sub-minute precision is never reported.
func EstimateMinutes(snap Snapshot, history []listing.CrawlRun, now time.Time) *int {
	if !snap.IsRunning {
		return nil
	}
	elapsed := now.Sub(snap.StartedAt)
	if elapsed < 0 {
		elapsed = 0
	}

	if avg, ok := HistoricalAverage(history); ok {
		remaining := avg - elapsed
		if remaining < 0 {
			remaining = 0
		}
		return ptrMinutes(remaining)
	}

	if remaining, ok := inFlightRemaining(elapsed, snap.SourcesDone, snap.SourcesTotal); ok {
		return ptrMinutes(remaining)
	}

	return nil
}

// HistoricalAverage returns the arithmetic mean duration of the most
// recent historyRunsForAverage successful runs. ok is false when the
// history holds fewer successful runs than that.
func HistoricalAverage(history []listing.CrawlRun) (time.Duration, bool) {
	var (
		total time.Duration
		n     int
	)
	for _, run := range history {
		if !run.IsSuccess {
			continue
		}
		total += time.Duration(run.DurationSeconds * float64(time.Second))
		n++
		if n == historyRunsForAverage {
			return total / historyRunsForAverage, true
		}
	}
	return 0, false
}

// inFlightRemaining projects remaining time from the elapsed/done
// ratio. ok is false when no source has finished yet, which also rules
// out any division by zero.
func inFlightRemaining(elapsed time.Duration, done, total int) (time.Duration, bool) {
	if done <= 0 {
		return 0, false
	}
	perSource := elapsed / time.Duration(done)
	left := total - done
	if left < 0 {
		left = 0
	}
	return perSource * time.Duration(left), true
}

func ptrMinutes(d time.Duration) *int {
	m := int((d + time.Minute - 1) / time.Minute)
	return &m
}
