// internal/domain/engagement/service.go

package engagement

import (
	"context"
)

// Service defines the interface for session-local engagement bookkeeping.
// Actions report their result through an Outcome rather than an error;
// nothing here is fatal to the process.
type Service interface {
	// CheckIn records a visit to a spring, subject to the per-spring
	// cooldown window.
	CheckIn(ctx context.Context, userID, springID string, hasMedia bool) Outcome

	// SubmitTip records a review for a spring. Rating is clamped to [1, 5]
	// and an empty message is rejected without state mutation.
	SubmitTip(ctx context.Context, userID, springID string, rating int, message string) Outcome

	// ReplyToTip appends a nested reply to an existing tip.
	ReplyToTip(ctx context.Context, userID, tipID, message string) Outcome

	// MarkHelpful increments a tip's helpfulness counter.
	MarkHelpful(ctx context.Context, userID, tipID string) Outcome

	// Nominate creates a hidden-gem nomination with the nominator's vote
	// pre-applied. A spring can be nominated at most once.
	Nominate(ctx context.Context, userID, springID, pitch string) Outcome

	// Vote adds one vote to a nomination. A user votes on a given
	// nomination at most once, including their own.
	Vote(ctx context.Context, userID, nominationID string) Outcome

	// CheckInStats returns the check-in counters for a spring.
	CheckInStats(springID string) CheckInStats

	// TipsFor returns the tips recorded for a spring, newest first.
	TipsFor(springID string) []Tip

	// Nominations returns all nominations ranked by vote count descending,
	// ties broken by earlier nomination time.
	Nominations() []Nomination

	// Quests returns the quest definitions.
	Quests() []Quest

	// QuestProgress returns a user's progress across all quests.
	QuestProgress(userID string) []QuestProgress

	// Badges returns the badge IDs a user has earned.
	Badges(userID string) []string

	// Leaderboard returns all entries sorted by points descending.
	Leaderboard() []LeaderboardEntry
}
