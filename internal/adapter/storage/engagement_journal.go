// internal/adapter/storage/engagement_journal.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"basedsprings/internal/domain/engagement"
)

// EngagementJournal implements the engagement write-through journal on
// Postgres. Every table is append-only; the running session's in-memory
// ledgers remain the authoritative read path.
type EngagementJournal struct {
	db *pgxpool.Pool
}

// NewEngagementJournal creates a new Postgres-backed engagement journal
func NewEngagementJournal(db *pgxpool.Pool) *EngagementJournal {
	return &EngagementJournal{
		db: db,
	}
}

// RecordCheckIn appends a check-in to the journal
func (j *EngagementJournal) RecordCheckIn(ctx context.Context, c engagement.CheckIn) error {
	query := `
		INSERT INTO check_ins (spring_id, user_id, has_media, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := j.db.Exec(ctx, query, c.SpringID, c.UserID, c.HasMedia, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting check-in: %w", err)
	}

	return nil
}

// RecordTip appends a tip to the journal
func (j *EngagementJournal) RecordTip(ctx context.Context, t engagement.Tip) error {
	query := `
		INSERT INTO tips (id, spring_id, author, rating, message, mentions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := j.db.Exec(ctx, query, t.ID, t.SpringID, t.Author, t.Rating, t.Message, t.Mentions, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting tip: %w", err)
	}

	return nil
}

// RecordReply appends a reply to an existing tip
func (j *EngagementJournal) RecordReply(ctx context.Context, tipID string, r engagement.Reply) error {
	query := `
		INSERT INTO tip_replies (id, tip_id, author, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := j.db.Exec(ctx, query, r.ID, tipID, r.Author, r.Message, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting reply: %w", err)
	}

	return nil
}

// RecordNomination appends a nomination to the journal
func (j *EngagementJournal) RecordNomination(ctx context.Context, n engagement.Nomination) error {
	query := `
		INSERT INTO nominations (id, spring_id, nominator, pitch, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := j.db.Exec(ctx, query, n.ID, n.SpringID, n.Nominator, n.Pitch, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting nomination: %w", err)
	}

	return nil
}

// RecordVote appends a vote on a nomination
func (j *EngagementJournal) RecordVote(ctx context.Context, nominationID, userID string) error {
	query := `
		INSERT INTO nomination_votes (nomination_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (nomination_id, user_id) DO NOTHING
	`

	_, err := j.db.Exec(ctx, query, nominationID, userID)
	if err != nil {
		return fmt.Errorf("error inserting vote: %w", err)
	}

	return nil
}
