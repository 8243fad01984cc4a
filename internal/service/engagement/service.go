// internal/service/engagement/service.go

package engagement

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	gocache "github.com/patrickmn/go-cache"

	"basedsprings/internal/domain/engagement"
	"basedsprings/internal/domain/spring"
)

// Base points per event kind, plus a flat bonus per badge newly earned in
// the same event.
const (
	pointsCheckInWithMedia = 4
	pointsCheckIn          = 3
	pointsTip              = 2
	pointsPerBadge         = 5
)

// Journal defines the write-through storage interface for engagement
// records. The in-memory ledgers stay authoritative; the journal is an
// append-only durability layer.
type Journal interface {
	// RecordCheckIn appends a check-in to the journal
	RecordCheckIn(ctx context.Context, c engagement.CheckIn) error

	// RecordTip appends a tip to the journal
	RecordTip(ctx context.Context, t engagement.Tip) error

	// RecordReply appends a reply to an existing tip
	RecordReply(ctx context.Context, tipID string, r engagement.Reply) error

	// RecordNomination appends a nomination to the journal
	RecordNomination(ctx context.Context, n engagement.Nomination) error

	// RecordVote appends a vote on a nomination
	RecordVote(ctx context.Context, nominationID, userID string) error
}

// ServiceConfig contains configuration for the engagement service
type ServiceConfig struct {
	CheckInCooldown time.Duration
	EventsTopic     string
}

// Service implements the engagement.Service interface. All ledgers are
// append-only or increment-only for the lifetime of the running session and
// are guarded by a single mutex; recomputation never blocks on I/O.
type Service struct {
	catalog  spring.Catalog
	journal  Journal
	eventBus *nats.Conn
	config   ServiceConfig
	quests   []engagement.Quest

	cooldowns *gocache.Cache

	mu          sync.Mutex
	checkIns    map[string]engagement.CheckInStats           // spring ID -> stats
	tips        map[string][]*engagement.Tip                 // spring ID -> tips, newest first
	tipsByID    map[string]*engagement.Tip                   // tip ID -> tip
	nominations []*engagement.Nomination                     // in nomination order
	nomineeIDs  map[string]struct{}                          // spring IDs already nominated
	voters      map[string]map[string]struct{}               // nomination ID -> voter set
	progress    map[string]map[string]int                    // user ID -> quest ID -> progress
	badges      map[string]map[string]struct{}               // user ID -> badge ID set
	badgeOrder  map[string][]string                          // user ID -> badge IDs in earn order
	entries     map[string]*engagement.LeaderboardEntry      // user ID -> entry
	now         func() time.Time
}

// NewService creates a new engagement service. The journal and event bus
// may be nil, in which case durability and fan-out are skipped.
func NewService(
	catalog spring.Catalog,
	journal Journal,
	eventBus *nats.Conn,
	config ServiceConfig,
) *Service {
	return &Service{
		catalog:     catalog,
		journal:     journal,
		eventBus:    eventBus,
		config:      config,
		quests:      DefaultQuests(),
		cooldowns:   gocache.New(config.CheckInCooldown, config.CheckInCooldown),
		checkIns:    make(map[string]engagement.CheckInStats),
		tips:        make(map[string][]*engagement.Tip),
		tipsByID:    make(map[string]*engagement.Tip),
		nomineeIDs:  make(map[string]struct{}),
		voters:      make(map[string]map[string]struct{}),
		progress:    make(map[string]map[string]int),
		badges:      make(map[string]map[string]struct{}),
		badgeOrder:  make(map[string][]string),
		entries:     make(map[string]*engagement.LeaderboardEntry),
		now:         time.Now,
	}
}

// CheckIn records a visit to a spring, subject to the cooldown window
func (s *Service) CheckIn(ctx context.Context, userID, springID string, hasMedia bool) engagement.Outcome {
	rec, err := s.catalog.Get(springID)
	if err != nil {
		return engagement.Outcome{Level: engagement.LevelError, Message: "unknown spring"}
	}

	checkIn := engagement.CheckIn{
		SpringID:  springID,
		UserID:    userID,
		HasMedia:  hasMedia,
		CreatedAt: s.now(),
	}

	s.mu.Lock()

	// Check-then-set on the cooldown must hold the mutex, or concurrent
	// check-ins for the same pair both pass the gate.
	key := cooldownKey(userID, springID)
	if _, expiry, found := s.cooldowns.GetWithExpiration(key); found {
		s.mu.Unlock()
		remaining := time.Until(expiry).Round(time.Second)
		return engagement.Outcome{
			Level:   engagement.LevelInfo,
			Message: fmt.Sprintf("already checked in here recently, try again in %s", remaining),
		}
	}
	s.cooldowns.Set(key, struct{}{}, gocache.DefaultExpiration)

	stats := s.checkIns[springID]
	stats.SpringID = springID
	stats.Count++
	stats.LastCheckIn = checkIn.CreatedAt
	s.checkIns[springID] = stats

	points := pointsCheckIn
	if hasMedia {
		points = pointsCheckInWithMedia
	}

	newBadges := s.advanceQuests(userID, engagement.EventCheckIn, rec.State, hasMedia)
	points += pointsPerBadge * len(newBadges)

	entry := s.entry(userID)
	entry.Points += points
	entry.CheckIns++
	s.mu.Unlock()

	s.journalWrite(ctx, func() error { return s.journal.RecordCheckIn(ctx, checkIn) })
	s.publish("checkin", engagement.Event{
		Type:      "checkin",
		UserID:    userID,
		SpringID:  springID,
		Points:    points,
		Badges:    newBadges,
		CreatedAt: checkIn.CreatedAt,
	})
	s.publishBadges(userID, springID, newBadges)

	if len(newBadges) > 0 {
		return engagement.Outcome{
			Level:   engagement.LevelSuccess,
			Message: fmt.Sprintf("checked in at %s (+%d points, new badge)", rec.Name, points),
		}
	}
	return engagement.Outcome{
		Level:   engagement.LevelSuccess,
		Message: fmt.Sprintf("checked in at %s (+%d points)", rec.Name, points),
	}
}

// SubmitTip records a review for a spring
func (s *Service) SubmitTip(ctx context.Context, userID, springID string, rating int, message string) engagement.Outcome {
	rec, err := s.catalog.Get(springID)
	if err != nil {
		return engagement.Outcome{Level: engagement.LevelError, Message: "unknown spring"}
	}

	if message == "" {
		return engagement.Outcome{Level: engagement.LevelInfo, Message: "tip text cannot be empty"}
	}

	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}

	tip := engagement.Tip{
		ID:        uuid.New().String(),
		SpringID:  springID,
		Author:    userID,
		Rating:    rating,
		Message:   message,
		Mentions:  ExtractMentions(message),
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.tips[springID] = append([]*engagement.Tip{&tip}, s.tips[springID]...)
	s.tipsByID[tip.ID] = &tip

	points := pointsTip
	newBadges := s.advanceQuests(userID, engagement.EventTip, rec.State, false)
	points += pointsPerBadge * len(newBadges)

	entry := s.entry(userID)
	entry.Points += points
	entry.Tips++
	s.mu.Unlock()

	s.journalWrite(ctx, func() error { return s.journal.RecordTip(ctx, tip) })
	s.publish("tip", engagement.Event{
		Type:      "tip",
		UserID:    userID,
		SpringID:  springID,
		Points:    points,
		Badges:    newBadges,
		CreatedAt: tip.CreatedAt,
	})
	s.publishBadges(userID, springID, newBadges)

	return engagement.Outcome{
		Level:   engagement.LevelSuccess,
		Message: fmt.Sprintf("tip posted for %s (+%d points)", rec.Name, points),
	}
}

// ReplyToTip appends a nested reply to an existing tip
func (s *Service) ReplyToTip(ctx context.Context, userID, tipID, message string) engagement.Outcome {
	if message == "" {
		return engagement.Outcome{Level: engagement.LevelInfo, Message: "reply text cannot be empty"}
	}

	reply := engagement.Reply{
		ID:        uuid.New().String(),
		Author:    userID,
		Message:   message,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	tip, ok := s.tipsByID[tipID]
	if !ok {
		s.mu.Unlock()
		return engagement.Outcome{Level: engagement.LevelError, Message: "tip not found"}
	}
	tip.Replies = append(tip.Replies, reply)
	s.mu.Unlock()

	s.journalWrite(ctx, func() error { return s.journal.RecordReply(ctx, tipID, reply) })

	return engagement.Outcome{Level: engagement.LevelSuccess, Message: "reply posted"}
}

// MarkHelpful increments a tip's helpfulness counter
func (s *Service) MarkHelpful(ctx context.Context, userID, tipID string) engagement.Outcome {
	s.mu.Lock()
	tip, ok := s.tipsByID[tipID]
	if !ok {
		s.mu.Unlock()
		return engagement.Outcome{Level: engagement.LevelError, Message: "tip not found"}
	}
	tip.Helpful++
	s.mu.Unlock()

	return engagement.Outcome{Level: engagement.LevelSuccess, Message: "marked as helpful"}
}

// Nominate creates a hidden-gem nomination with the nominator's vote
// pre-applied
func (s *Service) Nominate(ctx context.Context, userID, springID, pitch string) engagement.Outcome {
	rec, err := s.catalog.Get(springID)
	if err != nil {
		return engagement.Outcome{Level: engagement.LevelError, Message: "unknown spring"}
	}

	if pitch == "" {
		return engagement.Outcome{Level: engagement.LevelInfo, Message: "nomination pitch cannot be empty"}
	}

	nomination := engagement.Nomination{
		ID:        uuid.New().String(),
		SpringID:  springID,
		Nominator: userID,
		Pitch:     pitch,
		Votes:     1,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	if _, exists := s.nomineeIDs[springID]; exists {
		s.mu.Unlock()
		return engagement.Outcome{Level: engagement.LevelInfo, Message: "this spring has already been nominated"}
	}
	s.nomineeIDs[springID] = struct{}{}
	s.nominations = append(s.nominations, &nomination)
	s.voters[nomination.ID] = map[string]struct{}{userID: {}}
	s.mu.Unlock()

	s.journalWrite(ctx, func() error { return s.journal.RecordNomination(ctx, nomination) })
	s.publish("nomination", engagement.Event{
		Type:      "nomination",
		UserID:    userID,
		SpringID:  springID,
		CreatedAt: nomination.CreatedAt,
	})

	return engagement.Outcome{
		Level:   engagement.LevelSuccess,
		Message: fmt.Sprintf("%s nominated as a hidden gem", rec.Name),
	}
}

// Vote adds one vote to a nomination
func (s *Service) Vote(ctx context.Context, userID, nominationID string) engagement.Outcome {
	s.mu.Lock()
	voters, ok := s.voters[nominationID]
	if !ok {
		s.mu.Unlock()
		return engagement.Outcome{Level: engagement.LevelError, Message: "nomination not found"}
	}
	if _, voted := voters[userID]; voted {
		s.mu.Unlock()
		return engagement.Outcome{Level: engagement.LevelInfo, Message: "you already voted for this nomination"}
	}
	voters[userID] = struct{}{}

	var springID string
	for _, n := range s.nominations {
		if n.ID == nominationID {
			n.Votes++
			springID = n.SpringID
			break
		}
	}
	s.mu.Unlock()

	s.journalWrite(ctx, func() error { return s.journal.RecordVote(ctx, nominationID, userID) })
	s.publish("vote", engagement.Event{
		Type:      "vote",
		UserID:    userID,
		SpringID:  springID,
		CreatedAt: s.now(),
	})

	return engagement.Outcome{Level: engagement.LevelSuccess, Message: "vote counted"}
}

// CheckInStats returns the check-in counters for a spring
func (s *Service) CheckInStats(springID string) engagement.CheckInStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.checkIns[springID]
	stats.SpringID = springID
	return stats
}

// TipsFor returns the tips recorded for a spring, newest first
func (s *Service) TipsFor(springID string) []engagement.Tip {
	s.mu.Lock()
	defer s.mu.Unlock()

	tips := s.tips[springID]
	out := make([]engagement.Tip, len(tips))
	for i, t := range tips {
		out[i] = *t
	}
	return out
}

// Nominations returns all nominations ranked by vote count descending, ties
// broken by earlier nomination time
func (s *Service) Nominations() []engagement.Nomination {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]engagement.Nomination, len(s.nominations))
	for i, n := range s.nominations {
		out[i] = *n
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Votes != out[j].Votes {
			return out[i].Votes > out[j].Votes
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out
}

// Quests returns the quest definitions
func (s *Service) Quests() []engagement.Quest {
	out := make([]engagement.Quest, len(s.quests))
	copy(out, s.quests)
	return out
}

// QuestProgress returns a user's progress across all quests
func (s *Service) QuestProgress(userID string) []engagement.QuestProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	userProgress := s.progress[userID]
	out := make([]engagement.QuestProgress, 0, len(s.quests))
	for _, q := range s.quests {
		p := userProgress[q.ID]
		out = append(out, engagement.QuestProgress{
			QuestID:   q.ID,
			Title:     q.Title,
			Progress:  p,
			Goal:      q.Goal,
			Completed: p >= q.Goal,
			BadgeID:   q.BadgeID,
		})
	}
	return out
}

// Badges returns the badge IDs a user has earned, in earn order
func (s *Service) Badges(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	earned := s.badgeOrder[userID]
	out := make([]string, len(earned))
	copy(out, earned)
	return out
}

// Leaderboard returns all entries sorted by points descending
func (s *Service) Leaderboard() []engagement.LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]engagement.LeaderboardEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entry := *e
		entry.Badges = append([]string(nil), s.badgeOrder[e.UserID]...)
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].UserID < out[j].UserID
	})

	return out
}

// advanceQuests increments every quest matching the event by exactly one,
// capped at the quest goal, and returns the badges minted by quests that
// completed on this exact increment. Caller holds s.mu.
func (s *Service) advanceQuests(userID string, event engagement.EventType, state string, hasMedia bool) []string {
	userProgress, ok := s.progress[userID]
	if !ok {
		userProgress = make(map[string]int)
		s.progress[userID] = userProgress
	}

	var minted []string
	for _, q := range s.quests {
		if q.Event != event {
			continue
		}
		if q.RequiresMedia && !hasMedia {
			continue
		}
		if len(q.States) > 0 && !containsString(q.States, state) {
			continue
		}

		p := userProgress[q.ID]
		if p >= q.Goal {
			continue
		}

		p++
		userProgress[q.ID] = p

		if p == q.Goal {
			if s.mintBadge(userID, q.BadgeID) {
				minted = append(minted, q.BadgeID)
			}
		}
	}

	return minted
}

// mintBadge adds a badge to the user's earned set, reporting whether it was
// newly awarded. Each badge ID is awarded at most once. Caller holds s.mu.
func (s *Service) mintBadge(userID, badgeID string) bool {
	earned, ok := s.badges[userID]
	if !ok {
		earned = make(map[string]struct{})
		s.badges[userID] = earned
	}

	if _, has := earned[badgeID]; has {
		return false
	}

	earned[badgeID] = struct{}{}
	s.badgeOrder[userID] = append(s.badgeOrder[userID], badgeID)
	return true
}

// entry returns the leaderboard entry for a user, creating it on first use.
// Caller holds s.mu.
func (s *Service) entry(userID string) *engagement.LeaderboardEntry {
	e, ok := s.entries[userID]
	if !ok {
		e = &engagement.LeaderboardEntry{UserID: userID}
		s.entries[userID] = e
	}
	return e
}

// journalWrite performs a write-through to the journal, logging failures
// rather than surfacing them; the in-memory ledgers stay authoritative.
func (s *Service) journalWrite(ctx context.Context, write func() error) {
	if s.journal == nil {
		return
	}
	if err := write(); err != nil {
		log.Printf("Error writing engagement journal: %v", err)
	}
}

// publish sends an engagement event to the event bus
func (s *Service) publish(eventType string, event engagement.Event) {
	if s.eventBus == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling engagement event: %v", err)
		return
	}

	topic := fmt.Sprintf("%s.%s", s.config.EventsTopic, eventType)
	if err := s.eventBus.Publish(topic, data); err != nil {
		log.Printf("Error publishing engagement event: %v", err)
	}
}

// publishBadges emits one badge event per badge minted in the same action
func (s *Service) publishBadges(userID, springID string, badgeIDs []string) {
	for _, badgeID := range badgeIDs {
		s.publish("badge", engagement.Event{
			Type:      "badge",
			UserID:    userID,
			SpringID:  springID,
			Badges:    []string{badgeID},
			CreatedAt: s.now(),
		})
	}
}

func cooldownKey(userID, springID string) string {
	return userID + "|" + springID
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
