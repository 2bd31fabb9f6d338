package db

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/jmoiron/sqlx"

	"github.com/unclebandit/campaign-manager/internal/model"
)

// Seed inserts model.DemoCampaigns when the table is empty and reports how many rows
// were written. Creation times are spread over the last two weeks.
func Seed(ctx context.Context, db *sqlx.DB) (int, error) {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM campaigns`); err != nil {
		return 0, fmt.Errorf("count campaigns: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const q = `
        INSERT INTO campaigns (name, type, description, status, sent, replies, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW() - make_interval(days => $7), NOW())
    `
	for _, c := range model.DemoCampaigns {
		daysAgo := rand.Intn(14) + 1
		if _, err := tx.ExecContext(ctx, q, c.Name, c.Type, c.Description, c.Status, c.Sent, c.Replies, daysAgo); err != nil {
			return 0, fmt.Errorf("insert campaign %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return len(model.DemoCampaigns), nil
}
