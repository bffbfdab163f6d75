package stats

import (
	"testing"
	"time"

	"github.com/recallbox/recallbox/internal/model"
)

var base = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

func log(daysAgo int, outcome model.Outcome) model.ReviewLog {
	return model.ReviewLog{
		CardID:     "card",
		Outcome:    outcome,
		ReviewedAt: base.AddDate(0, 0, -daysAgo).Add(10 * time.Hour),
	}
}

func status(daysAgo int, energy float64) model.DailyStatus {
	return model.DailyStatus{
		Date:        base.AddDate(0, 0, -daysAgo),
		EnergyLevel: energy,
	}
}

func TestGenerateWeekly_TwoDayScenario(t *testing.T) {
	start := base.AddDate(0, 0, -1)
	logs := []model.ReviewLog{
		log(1, model.OutcomeRemembered),
		log(1, model.OutcomeForgot),
	}

	w := GenerateWeekly(logs, nil, start, base)

	if w.TotalReviewed != 2 {
		t.Errorf("total reviewed = %d, want 2", w.TotalReviewed)
	}
	if w.TotalRemembered != 1 {
		t.Errorf("total remembered = %d, want 1", w.TotalRemembered)
	}
	if w.RetentionRate != 0.5 {
		t.Errorf("retention = %v, want 0.5", w.RetentionRate)
	}
	if w.AverageEnergy != 0 {
		t.Errorf("average energy = %v, want 0", w.AverageEnergy)
	}
	if len(w.Days) != 2 {
		t.Fatalf("got %d day details, want 2", len(w.Days))
	}
	if w.Days[0].Date != "2025-06-09" || w.Days[1].Date != "2025-06-10" {
		t.Errorf("days out of order: %s, %s", w.Days[0].Date, w.Days[1].Date)
	}
	if w.Days[0].CardsReviewed != 2 || w.Days[1].CardsReviewed != 0 {
		t.Errorf("per-day counts = %d, %d; want 2, 0", w.Days[0].CardsReviewed, w.Days[1].CardsReviewed)
	}
	if w.Days[0].Energy != nil {
		t.Errorf("day without status should have nil energy")
	}
}

func TestGenerateWeekly_EnergyAverage(t *testing.T) {
	statuses := []model.DailyStatus{status(0, 8), status(1, 4)}
	w := GenerateWeekly(nil, statuses, base.AddDate(0, 0, -2), base)

	if w.AverageEnergy != 6 {
		t.Errorf("average energy = %v, want 6", w.AverageEnergy)
	}
	if w.Days[0].Energy != nil {
		t.Errorf("statusless day should have nil energy")
	}
	if w.Days[2].Energy == nil || *w.Days[2].Energy != 8 {
		t.Errorf("today's energy not carried into detail")
	}
}

func TestCurrentStreak(t *testing.T) {
	// today, -1, -2 recorded; gap at -3; stale record at -5
	statuses := []model.DailyStatus{
		status(2, 5), status(0, 5), status(1, 5), status(5, 5),
	}
	if got := CurrentStreak(statuses, base); got != 3 {
		t.Errorf("streak = %d, want 3", got)
	}
}

func TestCurrentStreak_NoRecordToday(t *testing.T) {
	statuses := []model.DailyStatus{status(1, 5), status(2, 5)}
	if got := CurrentStreak(statuses, base); got != 0 {
		t.Errorf("streak = %d, want 0", got)
	}
}

func TestCurrentStreak_NonUTCToday(t *testing.T) {
	// Status dates load as UTC midnights; a local "today" east of UTC must
	// still match them by calendar day.
	plus8 := time.FixedZone("UTC+8", 8*60*60)
	localNow := time.Date(2025, 6, 10, 9, 0, 0, 0, plus8)
	statuses := []model.DailyStatus{
		{Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), EnergyLevel: 5},
		{Date: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), EnergyLevel: 5},
		{Date: time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), EnergyLevel: 5},
	}
	if got := CurrentStreak(statuses, localNow); got != 3 {
		t.Errorf("streak = %d, want 3", got)
	}
}

func TestCurrentStreak_Empty(t *testing.T) {
	if got := CurrentStreak(nil, base); got != 0 {
		t.Errorf("streak = %d, want 0", got)
	}
}

func TestTopicDistribution(t *testing.T) {
	sources := []model.Source{
		{Tags: []string{"go", "memory"}},
		{Tags: []string{"go", "sleep"}},
		{Tags: []string{"memory"}},
	}

	got := TopicDistribution(sources)
	want := []TagCount{
		{Tag: "go", Count: 2},
		{Tag: "memory", Count: 2},
		{Tag: "sleep", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tags, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestEnergyRetentionCorrelation(t *testing.T) {
	var logs []model.ReviewLog
	// day 0: high energy, 5 logs, 4 remembered
	for i := 0; i < 5; i++ {
		o := model.OutcomeRemembered
		if i == 0 {
			o = model.OutcomeForgot
		}
		logs = append(logs, log(0, o))
	}
	// day 1: low energy, 5 logs, 1 remembered
	for i := 0; i < 5; i++ {
		o := model.OutcomeForgot
		if i == 0 {
			o = model.OutcomeRemembered
		}
		logs = append(logs, log(1, o))
	}
	// day 2: no status record, logs skipped
	logs = append(logs, log(2, model.OutcomeRemembered))

	statuses := []model.DailyStatus{status(0, 8), status(1, 3)}

	c := EnergyRetentionCorrelation(logs, statuses)
	if !c.HasEnoughData {
		t.Error("expected enough data with 5 samples per bucket")
	}
	if c.HighEnergyRetention != 0.8 {
		t.Errorf("high retention = %v, want 0.8", c.HighEnergyRetention)
	}
	if c.LowEnergyRetention != 0.2 {
		t.Errorf("low retention = %v, want 0.2", c.LowEnergyRetention)
	}
}

func TestEnergyRetentionCorrelation_NotEnoughData(t *testing.T) {
	logs := []model.ReviewLog{log(0, model.OutcomeRemembered)}
	statuses := []model.DailyStatus{status(0, 9)}

	c := EnergyRetentionCorrelation(logs, statuses)
	if c.HasEnoughData {
		t.Error("one sample should not count as enough data")
	}
	if c.HighEnergyRetention != 1 {
		t.Errorf("high retention = %v, want 1", c.HighEnergyRetention)
	}
	if c.LowEnergyRetention != 0 {
		t.Errorf("empty low bucket retention = %v, want 0", c.LowEnergyRetention)
	}
}
