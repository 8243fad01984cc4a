package engagement

import (
	"time"
)

// OutcomeLevel classifies the one-shot notification reported for an action.
type OutcomeLevel string

const (
	LevelSuccess OutcomeLevel = "success"
	LevelInfo    OutcomeLevel = "info"
	LevelError   OutcomeLevel = "error"
)

// Outcome is the result reported back to the caller of an engagement
// action. Expected conditions (cooldown hits, validation misses, duplicate
// votes) are info-level outcomes, not errors.
type Outcome struct {
	Level   OutcomeLevel `json:"level"`
	Message string       `json:"message"`
}

// CheckIn records one visit to a spring within the running session.
type CheckIn struct {
	SpringID  string    `json:"spring_id"`
	UserID    string    `json:"user_id"`
	HasMedia  bool      `json:"has_media"`
	CreatedAt time.Time `json:"created_at"`
}

// CheckInStats aggregates the check-ins for one spring.
type CheckInStats struct {
	SpringID    string    `json:"spring_id"`
	Count       int       `json:"count"`
	LastCheckIn time.Time `json:"last_check_in"`
}

// Reply is a nested response to a tip.
type Reply struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Tip is a visitor review of a spring. Mentions are the @handles extracted
// from the message, deduplicated, in order of first appearance.
type Tip struct {
	ID        string    `json:"id"`
	SpringID  string    `json:"spring_id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Message   string    `json:"message"`
	Mentions  []string  `json:"mentions,omitempty"`
	Helpful   int       `json:"helpful"`
	Replies   []Reply   `json:"replies,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Nomination is a hidden-gem nomination. The nominator's vote is applied at
// creation, so Votes starts at 1.
type Nomination struct {
	ID        string    `json:"id"`
	SpringID  string    `json:"spring_id"`
	Nominator string    `json:"nominator"`
	Pitch     string    `json:"pitch"`
	Votes     int       `json:"votes"`
	CreatedAt time.Time `json:"created_at"`
}

// EventType identifies which kind of engagement event a quest counts.
type EventType string

const (
	EventCheckIn EventType = "checkin"
	EventTip     EventType = "tip"
)

// Quest is a goal definition that, once met, awards a badge. States and
// RequiresMedia are optional constraints; a zero-length States slice means
// any state qualifies.
type Quest struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Event         EventType `json:"event"`
	Goal          int       `json:"goal"`
	States        []string  `json:"states,omitempty"`
	RequiresMedia bool      `json:"requires_media,omitempty"`
	BadgeID       string    `json:"badge_id"`
}

// QuestProgress is one user's progress toward a quest goal.
type QuestProgress struct {
	QuestID   string `json:"quest_id"`
	Title     string `json:"title"`
	Progress  int    `json:"progress"`
	Goal      int    `json:"goal"`
	Completed bool   `json:"completed"`
	BadgeID   string `json:"badge_id"`
}

// LeaderboardEntry is one user's running totals. All counters are
// monotonically non-decreasing for the lifetime of the session.
type LeaderboardEntry struct {
	UserID   string   `json:"user_id"`
	Points   int      `json:"points"`
	CheckIns int      `json:"check_ins"`
	Tips     int      `json:"tips"`
	Badges   []string `json:"badges,omitempty"`
}

// Event is the payload published to the event bus for every accepted
// engagement action.
type Event struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	SpringID  string    `json:"spring_id,omitempty"`
	Points    int       `json:"points,omitempty"`
	Badges    []string  `json:"badges,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
