package stats

import (
	"time"

	"github.com/recallbox/recallbox/internal/model"
)

// Trigger reason codes, in evaluation order.
const (
	ReasonActiveUser       = "active_user"
	ReasonCardMilestone    = "card_milestone"
	ReasonReportEngagement = "report_engagement"
)

// promptCooldownDays is the minimum gap between subscription prompts.
const promptCooldownDays = 14

// Trigger is the outcome of a subscription-prompt evaluation.
type Trigger struct {
	ShouldShow bool   `json:"should_show"`
	Reason     string `json:"reason,omitempty"`
}

// CheckSubscriptionTrigger decides whether to surface a subscription prompt.
// A prompt shown within the last 14 days suppresses everything. Otherwise
// the first matching rule wins: 4+ status records in the trailing 7 days,
// then a 40-card milestone, then a third weekly-report view.
func CheckSubscriptionTrigger(statuses []model.DailyStatus, totalCards, weeklyReportViews int, lastPrompt *time.Time, now time.Time) Trigger {
	if lastPrompt != nil && model.DaysBetween(*lastPrompt, now) < promptCooldownDays {
		return Trigger{}
	}

	// Trailing window in calendar days (today through six days back) so the
	// edge day does not flip with the caller's time of day or zone.
	recent := 0
	for _, st := range statuses {
		if d := model.DaysBetween(st.Date, now); d >= 0 && d < 7 {
			recent++
		}
	}
	if recent >= 4 {
		return Trigger{ShouldShow: true, Reason: ReasonActiveUser}
	}

	if totalCards >= 40 {
		return Trigger{ShouldShow: true, Reason: ReasonCardMilestone}
	}

	if weeklyReportViews >= 3 {
		return Trigger{ShouldShow: true, Reason: ReasonReportEngagement}
	}

	return Trigger{}
}
