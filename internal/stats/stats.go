// Package stats aggregates review logs and daily statuses into weekly
// reports, streaks, topic distribution, and energy/retention correlation.
package stats

import (
	"sort"
	"time"

	"github.com/recallbox/recallbox/internal/model"
)

// DayFormat is the wire format for calendar days in reports.
const DayFormat = "2006-01-02"

// highEnergyThreshold splits review days into high and low energy buckets.
const highEnergyThreshold = 7.0

// DayDetail is one calendar day's slice of a weekly report.
// Energy is nil for days without a status record.
type DayDetail struct {
	Date            string   `json:"date"`
	CardsReviewed   int      `json:"cards_reviewed"`
	CardsRemembered int      `json:"cards_remembered"`
	Energy          *float64 `json:"energy,omitempty"`
	Keyword         string   `json:"keyword,omitempty"`
}

// Weekly is the aggregate report over a date range.
type Weekly struct {
	StartDate       string      `json:"start_date"`
	EndDate         string      `json:"end_date"`
	TotalReviewed   int         `json:"total_reviewed"`
	TotalRemembered int         `json:"total_remembered"`
	RetentionRate   float64     `json:"retention_rate"`
	AverageEnergy   float64     `json:"average_energy"`
	Days            []DayDetail `json:"days"`
}

// TagCount is one entry of a topic distribution.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Correlation relates review retention to self-reported energy.
// Callers must suppress display when HasEnoughData is false.
type Correlation struct {
	HighEnergyRetention float64 `json:"high_energy_retention"`
	LowEnergyRetention  float64 `json:"low_energy_retention"`
	HasEnoughData       bool    `json:"has_enough_data"`
}

// GenerateWeekly walks each calendar day in [start, end] inclusive and
// produces one DayDetail per day in chronological order, plus totals.
// Days with no activity still get an entry. AverageEnergy is the mean over
// days that have a status record, 0 when none do.
func GenerateWeekly(logs []model.ReviewLog, statuses []model.DailyStatus, start, end time.Time) Weekly {
	w := Weekly{
		StartDate: start.Format(DayFormat),
		EndDate:   end.Format(DayFormat),
	}

	energySum := 0.0
	energyCount := 0

	for day := model.StartOfDay(start); !day.After(model.StartOfDay(end)); day = day.AddDate(0, 0, 1) {
		detail := DayDetail{Date: day.Format(DayFormat)}

		for _, l := range logs {
			if !model.SameDay(l.ReviewedAt, day) {
				continue
			}
			detail.CardsReviewed++
			if l.Outcome == model.OutcomeRemembered {
				detail.CardsRemembered++
			}
		}
		w.TotalReviewed += detail.CardsReviewed
		w.TotalRemembered += detail.CardsRemembered

		if st := statusForDay(statuses, day); st != nil {
			e := st.EnergyLevel
			detail.Energy = &e
			detail.Keyword = st.Keyword
			energySum += e
			energyCount++
		}

		w.Days = append(w.Days, detail)
	}

	if w.TotalReviewed > 0 {
		w.RetentionRate = float64(w.TotalRemembered) / float64(w.TotalReviewed)
	}
	if energyCount > 0 {
		w.AverageEnergy = energySum / float64(energyCount)
	}
	return w
}

// CurrentStreak counts consecutive days with a status record, walking
// backward from today. The first missing day ends the streak.
func CurrentStreak(statuses []model.DailyStatus, today time.Time) int {
	sorted := make([]model.DailyStatus, len(statuses))
	copy(sorted, statuses)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	streak := 0
	expected := model.StartOfDay(today)
	for _, st := range sorted {
		// Status dates load as UTC midnights; match on the calendar day, not
		// the instant, so non-UTC callers still see their streak.
		if model.SameDay(st.Date, expected) {
			streak++
			expected = expected.AddDate(0, 0, -1)
		} else if model.DaysBetween(st.Date, expected) > 0 {
			break
		}
	}
	return streak
}

// TopicDistribution returns tag frequencies across all sources, most
// frequent first. Equal counts are ordered lexicographically by tag so the
// result is deterministic.
func TopicDistribution(sources []model.Source) []TagCount {
	counts := map[string]int{}
	for _, s := range sources {
		for _, tag := range s.Tags {
			counts[tag]++
		}
	}

	out := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// EnergyRetentionCorrelation buckets each log by the energy recorded on its
// calendar day (high means 7 or above) and computes retention per bucket. Logs on days
// without a status record are skipped. Both buckets need at least 5 samples
// before HasEnoughData is set.
func EnergyRetentionCorrelation(logs []model.ReviewLog, statuses []model.DailyStatus) Correlation {
	var highTotal, highRemembered, lowTotal, lowRemembered int

	for _, l := range logs {
		st := statusForDay(statuses, l.ReviewedAt)
		if st == nil {
			continue
		}
		remembered := l.Outcome == model.OutcomeRemembered
		if st.EnergyLevel >= highEnergyThreshold {
			highTotal++
			if remembered {
				highRemembered++
			}
		} else {
			lowTotal++
			if remembered {
				lowRemembered++
			}
		}
	}

	c := Correlation{HasEnoughData: highTotal >= 5 && lowTotal >= 5}
	if highTotal > 0 {
		c.HighEnergyRetention = float64(highRemembered) / float64(highTotal)
	}
	if lowTotal > 0 {
		c.LowEnergyRetention = float64(lowRemembered) / float64(lowTotal)
	}
	return c
}

func statusForDay(statuses []model.DailyStatus, day time.Time) *model.DailyStatus {
	for i := range statuses {
		if model.SameDay(statuses[i].Date, day) {
			return &statuses[i]
		}
	}
	return nil
}
