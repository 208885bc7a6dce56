// Package websocket - websocket/notifier.go
package websocket

import (
	"go-iron-flow/services"
)

// ScoreboardNotifier bridges the attempt ledger to the live scoreboard:
// every judged attempt is pushed to the tournament's subscribers.
// Implements services.Notifier.
type ScoreboardNotifier struct{}

// NewScoreboardNotifier creates a new ScoreboardNotifier instance.
func NewScoreboardNotifier() *ScoreboardNotifier {
	return &ScoreboardNotifier{}
}

// AttemptJudged pushes the judged attempt to subscribed scoreboards and
// tells them to re-fetch rankings; the core never caches a snapshot, so
// consumers pull a fresh one.
func (n *ScoreboardNotifier) AttemptJudged(event services.AttemptEvent) {
	message := map[string]interface{}{
		"action":      "attemptJudged",
		"athleteName": event.AthleteName,
		"lift":        event.Lift,
		"number":      event.Number,
		"weightKg":    event.WeightKg,
		"result":      event.Result,
		"hasTotal":    event.HasTotal,
	}
	if event.HasBest {
		message["bestLift"] = event.BestLift
	}
	if event.HasTotal {
		message["total"] = event.Total
	}
	BroadcastMessage(event.TournamentID, message)
	PublishAttemptJudged(event.TournamentID)
}
