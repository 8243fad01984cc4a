// internal/adapter/storage/memory_journal.go

package storage

import (
	"context"
	"sync"

	"basedsprings/internal/domain/engagement"
)

// MemoryJournal is the in-process engagement journal used when no database
// is configured. Records live only as long as the process.
type MemoryJournal struct {
	mu          sync.Mutex
	checkIns    []engagement.CheckIn
	tips        []engagement.Tip
	replies     map[string][]engagement.Reply
	nominations []engagement.Nomination
	votes       map[string][]string
}

// NewMemoryJournal creates a new in-memory engagement journal
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{
		replies: make(map[string][]engagement.Reply),
		votes:   make(map[string][]string),
	}
}

// RecordCheckIn appends a check-in to the journal
func (j *MemoryJournal) RecordCheckIn(ctx context.Context, c engagement.CheckIn) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.checkIns = append(j.checkIns, c)
	return nil
}

// RecordTip appends a tip to the journal
func (j *MemoryJournal) RecordTip(ctx context.Context, t engagement.Tip) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.tips = append(j.tips, t)
	return nil
}

// RecordReply appends a reply to an existing tip
func (j *MemoryJournal) RecordReply(ctx context.Context, tipID string, r engagement.Reply) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.replies[tipID] = append(j.replies[tipID], r)
	return nil
}

// RecordNomination appends a nomination to the journal
func (j *MemoryJournal) RecordNomination(ctx context.Context, n engagement.Nomination) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.nominations = append(j.nominations, n)
	return nil
}

// RecordVote appends a vote on a nomination
func (j *MemoryJournal) RecordVote(ctx context.Context, nominationID, userID string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.votes[nominationID] = append(j.votes[nominationID], userID)
	return nil
}

// CheckInCount reports how many check-ins have been journaled
func (j *MemoryJournal) CheckInCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	return len(j.checkIns)
}
