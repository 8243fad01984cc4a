// internal/service/engagement/service_test.go

package engagement

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basedsprings/internal/adapter/storage"
	"basedsprings/internal/domain/engagement"
	"basedsprings/internal/domain/spring"
	"basedsprings/internal/service/catalog"
)

func testCatalog(t *testing.T) spring.Catalog {
	t.Helper()

	springs := []spring.Spring{
		{ID: "ridge", Name: "Ridge Springs", City: "Salida", State: "Colorado", Country: "United States", Rating: 4.5},
		{ID: "canyon", Name: "Canyon Pools", City: "Boise", State: "Idaho", Country: "United States", Rating: 4.0},
		{ID: "cedar", Name: "Cedar Tubs", City: "Estacada", State: "Oregon", Country: "United States", Rating: 4.2},
		{ID: "mesa", Name: "Mesa Seeps", City: "Safford", State: "Arizona", Country: "United States", Rating: 3.8},
		{ID: "playa", Name: "Playa Pool", City: "Gerlach", State: "Nevada", Country: "United States", Rating: 3.5},
		{ID: "gila", Name: "Gila Bend", City: "Faywood", State: "New Mexico", Country: "United States", Rating: 4.1},
	}

	return catalog.NewEngine(springs, []string{"United States"}, catalog.EngineConfig{
		HomeCountry: "United States",
		PageSize:    12,
	})
}

func newTestService(t *testing.T, cooldown time.Duration) *Service {
	t.Helper()

	return NewService(testCatalog(t), storage.NewMemoryJournal(), nil, ServiceConfig{
		CheckInCooldown: cooldown,
		EventsTopic:     "engagement",
	})
}

func TestCheckInAwardsPointsAndFirstBadge(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Minute)
	ctx := context.Background()

	out := s.CheckIn(ctx, "ana", "ridge", false)
	require.Equal(t, engagement.LevelSuccess, out.Level)
	assert.Contains(t, out.Message, "Ridge Springs")
	assert.Contains(t, out.Message, "new badge")

	stats := s.CheckInStats("ridge")
	assert.Equal(t, 1, stats.Count)
	assert.False(t, stats.LastCheckIn.IsZero())

	// 3 base points plus 5 for the first-soak badge.
	board := s.Leaderboard()
	require.Len(t, board, 1)
	assert.Equal(t, 8, board[0].Points)
	assert.Equal(t, 1, board[0].CheckIns)
	assert.Equal(t, []string{"badge-first-soak"}, s.Badges("ana"))
}

func TestCheckInUnknownSpring(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Minute)

	out := s.CheckIn(context.Background(), "ana", "nowhere", false)
	assert.Equal(t, engagement.LevelError, out.Level)
	assert.Empty(t, s.Leaderboard())
}

func TestCheckInCooldown(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Minute)
	ctx := context.Background()

	require.Equal(t, engagement.LevelSuccess, s.CheckIn(ctx, "ana", "ridge", false).Level)

	out := s.CheckIn(ctx, "ana", "ridge", false)
	assert.Equal(t, engagement.LevelInfo, out.Level)
	assert.Contains(t, out.Message, "try again in")
	assert.Equal(t, 1, s.CheckInStats("ridge").Count)

	// The cooldown is scoped to the user and spring pair.
	assert.Equal(t, engagement.LevelSuccess, s.CheckIn(ctx, "ana", "canyon", false).Level)
	assert.Equal(t, engagement.LevelSuccess, s.CheckIn(ctx, "ben", "ridge", false).Level)
}

func TestConcurrentCheckInsHitCooldownOnce(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Minute)
	ctx := context.Background()

	const attempts = 16
	outcomes := make(chan engagement.OutcomeLevel, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes <- s.CheckIn(ctx, "ana", "ridge", false).Level
		}()
	}
	wg.Wait()
	close(outcomes)

	successes := 0
	for level := range outcomes {
		if level == engagement.LevelSuccess {
			successes++
		}
	}

	// Exactly one check-in wins the cooldown gate.
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, s.CheckInStats("ridge").Count)
}

func TestCheckInCooldownExpires(t *testing.T) {
	t.Parallel()

	s := newTestService(t, 30*time.Millisecond)
	ctx := context.Background()

	require.Equal(t, engagement.LevelSuccess, s.CheckIn(ctx, "ana", "ridge", false).Level)

	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, engagement.LevelSuccess, s.CheckIn(ctx, "ana", "ridge", false).Level)
	assert.Equal(t, 2, s.CheckInStats("ridge").Count)
}

func TestMediaCheckInScoresHigher(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Minute)

	s.CheckIn(context.Background(), "ana", "ridge", true)

	// 4 base points with media plus 5 for first-soak.
	board := s.Leaderboard()
	require.Len(t, board, 1)
	assert.Equal(t, 9, board[0].Points)
}

func TestShutterbugQuestCountsOnlyMediaCheckIns(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Minute)
	ctx := context.Background()

	s.CheckIn(ctx, "ana", "ridge", true)
	s.CheckIn(ctx, "ana", "canyon", false)
	s.CheckIn(ctx, "ana", "cedar", true)

	for _, p := range s.QuestProgress("ana") {
		if p.QuestID == "shutterbug" {
			assert.Equal(t, 2, p.Progress)
			assert.False(t, p.Completed)
		}
	}

	s.CheckIn(ctx, "ana", "mesa", true)
	assert.Contains(t, s.Badges("ana"), "badge-shutterbug")
}

func TestDesertSoakerQuestMatchesStateSet(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Minute)
	ctx := context.Background()

	s.CheckIn(ctx, "ana", "ridge", false)
	s.CheckIn(ctx, "ana", "mesa", false)
	s.CheckIn(ctx, "ana", "playa", false)

	for _, p := range s.QuestProgress("ana") {
		if p.QuestID == "desert-soaker" {
			assert.Equal(t, 2, p.Progress)
		}
	}

	out := s.CheckIn(ctx, "ana", "gila", false)
	assert.Contains(t, out.Message, "new badge")
	assert.Contains(t, s.Badges("ana"), "badge-desert-soaker")
}

func TestBadgeMintedOnlyOnce(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Minute)
	ctx := context.Background()

	s.CheckIn(ctx, "ana", "ridge", false)
	s.CheckIn(ctx, "ana", "canyon", false)

	badges := s.Badges("ana")
	count := 0
	for _, b := range badges {
		if b == "badge-first-soak" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	// Progress never overshoots the goal.
	for _, p := range s.QuestProgress("ana") {
		if p.QuestID == "first-soak" {
			assert.Equal(t, 1, p.Progress)
		}
	}
}

func TestSubmitTip(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Minute)
	ctx := context.Background()

	out := s.SubmitTip(ctx, "ana", "ridge", 9, "Go early, thanks @ben and @cleo for the beta")
	require.Equal(t, engagement.LevelSuccess, out.Level)

	tips := s.TipsFor("ridge")
	require.Len(t, tips, 1)
	assert.Equal(t, 5, tips[0].Rating)
	assert.Equal(t, []string{"ben", "cleo"}, tips[0].Mentions)

	board := s.Leaderboard()
	require.Len(t, board, 1)
	assert.Equal(t, 2, board[0].Points)
	assert.Equal(t, 1, board[0].Tips)
}

func TestSubmitTipValidation(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Minute)
	ctx := context.Background()

	assert.Equal(t, engagement.LevelError, s.SubmitTip(ctx, "ana", "nowhere", 4, "text").Level)
	assert.Equal(t, engagement.LevelInfo, s.SubmitTip(ctx, "ana", "ridge", 4, "").Level)
	assert.Empty(t, s.TipsFor("ridge"))
}

func TestTipsNewestFirst(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Minute)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	s.SubmitTip(ctx, "ana", "ridge", 4, "first")
	s.SubmitTip(ctx, "ben", "ridge", 5, "second")

	tips := s.TipsFor("ridge")
	require.Len(t, tips, 2)
	assert.Equal(t, "second", tips[0].Message)
	assert.Equal(t, "first", tips[1].Message)
}

func TestLocalGuideQuest(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Minute)
	ctx := context.Background()

	s.SubmitTip(ctx, "ana", "ridge", 4, "one")
	s.SubmitTip(ctx, "ana", "canyon", 4, "two")
	out := s.SubmitTip(ctx, "ana", "cedar", 4, "three")

	require.Equal(t, engagement.LevelSuccess, out.Level)
	assert.Contains(t, s.Badges("ana"), "badge-local-guide")

	// 2 points per tip plus 5 for the badge.
	board := s.Leaderboard()
	require.Len(t, board, 1)
	assert.Equal(t, 11, board[0].Points)
}

func TestReplyToTip(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Minute)
	ctx := context.Background()

	s.SubmitTip(ctx, "ana", "ridge", 4, "watch the parking lot")
	tipID := s.TipsFor("ridge")[0].ID

	assert.Equal(t, engagement.LevelInfo, s.ReplyToTip(ctx, "ben", tipID, "").Level)
	assert.Equal(t, engagement.LevelError, s.ReplyToTip(ctx, "ben", "missing", "hi").Level)

	out := s.ReplyToTip(ctx, "ben", tipID, "seconded")
	require.Equal(t, engagement.LevelSuccess, out.Level)

	tips := s.TipsFor("ridge")
	require.Len(t, tips[0].Replies, 1)
	assert.Equal(t, "ben", tips[0].Replies[0].Author)
	assert.Equal(t, "seconded", tips[0].Replies[0].Message)
}

func TestMarkHelpful(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Minute)
	ctx := context.Background()

	s.SubmitTip(ctx, "ana", "ridge", 4, "useful")
	tipID := s.TipsFor("ridge")[0].ID

	assert.Equal(t, engagement.LevelError, s.MarkHelpful(ctx, "ben", "missing").Level)

	s.MarkHelpful(ctx, "ben", tipID)
	s.MarkHelpful(ctx, "cleo", tipID)

	assert.Equal(t, 2, s.TipsFor("ridge")[0].Helpful)
}

func TestNominate(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Minute)
	ctx := context.Background()

	assert.Equal(t, engagement.LevelError, s.Nominate(ctx, "ana", "nowhere", "pitch").Level)
	assert.Equal(t, engagement.LevelInfo, s.Nominate(ctx, "ana", "ridge", "").Level)

	out := s.Nominate(ctx, "ana", "ridge", "underrated and quiet")
	require.Equal(t, engagement.LevelSuccess, out.Level)

	// One nomination per spring.
	assert.Equal(t, engagement.LevelInfo, s.Nominate(ctx, "ben", "ridge", "me too").Level)

	noms := s.Nominations()
	require.Len(t, noms, 1)
	assert.Equal(t, "ana", noms[0].Nominator)
	assert.Equal(t, 1, noms[0].Votes)
}

func TestVote(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Minute)
	ctx := context.Background()

	s.Nominate(ctx, "ana", "ridge", "underrated")
	nomID := s.Nominations()[0].ID

	assert.Equal(t, engagement.LevelError, s.Vote(ctx, "ben", "missing").Level)

	// The nominator's vote is pre-applied.
	assert.Equal(t, engagement.LevelInfo, s.Vote(ctx, "ana", nomID).Level)

	require.Equal(t, engagement.LevelSuccess, s.Vote(ctx, "ben", nomID).Level)
	assert.Equal(t, engagement.LevelInfo, s.Vote(ctx, "ben", nomID).Level)

	assert.Equal(t, 2, s.Nominations()[0].Votes)
}

func TestNominationsRankedByVotes(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Minute)
	ctx := context.Background()

	s.Nominate(ctx, "ana", "ridge", "first up")
	s.Nominate(ctx, "ben", "canyon", "better though")

	noms := s.Nominations()
	canyonID := noms[1].ID

	s.Vote(ctx, "ana", canyonID)
	s.Vote(ctx, "cleo", canyonID)

	noms = s.Nominations()
	require.Len(t, noms, 2)
	assert.Equal(t, "canyon", noms[0].SpringID)
	assert.Equal(t, 3, noms[0].Votes)
	assert.Equal(t, "ridge", noms[1].SpringID)
}

func TestLeaderboardOrdering(t *testing.T) {
	t.Parallel()

	s := newTestService(t, time.Minute)
	ctx := context.Background()

	s.CheckIn(ctx, "ana", "ridge", true)
	s.CheckIn(ctx, "ben", "ridge", false)
	s.SubmitTip(ctx, "ben", "ridge", 4, "nice")

	board := s.Leaderboard()
	require.Len(t, board, 2)

	// ben: 3 + 5 (first-soak) + 2 = 10, ana: 4 + 5 = 9.
	assert.Equal(t, "ben", board[0].UserID)
	assert.Equal(t, 10, board[0].Points)
	assert.Equal(t, "ana", board[1].UserID)
	assert.Equal(t, 9, board[1].Points)
	assert.Equal(t, []string{"badge-first-soak"}, board[0].Badges)
}

func TestJournalWriteThrough(t *testing.T) {
	t.Parallel()

	journal := storage.NewMemoryJournal()
	s := NewService(testCatalog(t), journal, nil, ServiceConfig{
		CheckInCooldown: time.Minute,
		EventsTopic:     "engagement",
	})
	ctx := context.Background()

	for i, id := range []string{"ridge", "canyon", "cedar"} {
		out := s.CheckIn(ctx, fmt.Sprintf("user%d", i), id, false)
		require.Equal(t, engagement.LevelSuccess, out.Level)
	}

	assert.Equal(t, 3, journal.CheckInCount())
}

func TestNilJournalAndBusAreTolerated(t *testing.T) {
	t.Parallel()

	s := NewService(testCatalog(t), nil, nil, ServiceConfig{
		CheckInCooldown: time.Minute,
		EventsTopic:     "engagement",
	})

	out := s.CheckIn(context.Background(), "ana", "ridge", false)
	assert.Equal(t, engagement.LevelSuccess, out.Level)
}
