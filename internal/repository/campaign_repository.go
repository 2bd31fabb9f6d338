package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/unclebandit/campaign-manager/internal/errors"
	"github.com/unclebandit/campaign-manager/internal/model"
)

type CampaignRepositoryInterface interface {
	List(ctx context.Context) ([]model.Campaign, error)
	GetByID(ctx context.Context, id int64) (*model.Campaign, error)
	Create(ctx context.Context, c *model.Campaign) error
	Update(ctx context.Context, id int64, changes model.CampaignChanges) (*model.Campaign, error)
	Delete(ctx context.Context, id int64) error
	DashboardTotals(ctx context.Context) (model.CampaignTotals, error)
	Ping(ctx context.Context) error
}

type CampaignRepository struct {
	DB *sqlx.DB
}

func NewCampaignRepository(db *sqlx.DB) *CampaignRepository {
	return &CampaignRepository{DB: db}
}

const campaignColumns = `id, name, type, description, status, sent, replies, created_at, updated_at`

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) List(ctx context.Context) ([]model.Campaign, error) {
	campaigns := []model.Campaign{}
	query := `SELECT ` + campaignColumns + ` FROM campaigns ORDER BY created_at DESC, id DESC`
	if err := r.DB.SelectContext(ctx, &campaigns, query); err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return campaigns, nil
}

func (r *CampaignRepository) GetByID(ctx context.Context, id int64) (*model.Campaign, error) {
	var c model.Campaign
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`
	err := r.DB.GetContext(ctx, &c, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, fmt.Errorf("get campaign %d: %w", id, err)
	}
	return &c, nil
}

// Create inserts a draft and fills in the store-assigned id and timestamps.
func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	if c.Status == "" {
		c.Status = model.CampaignStatusDraft
	}
	query := `
        INSERT INTO campaigns (name, type, description, status, sent, replies, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	row := r.DB.QueryRowxContext(ctx, query, c.Name, c.Type, c.Description, c.Status, c.Sent, c.Replies)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

// Update writes only the columns set in changes and refreshes updated_at in the
// same statement.
func (r *CampaignRepository) Update(ctx context.Context, id int64, changes model.CampaignChanges) (*model.Campaign, error) {
	if changes.Empty() {
		return nil, appErrors.ErrNoFieldsToUpdate
	}

	sets, args := buildSetClause(changes)
	query := fmt.Sprintf(
		`UPDATE campaigns SET %s WHERE id = $%d RETURNING `+campaignColumns,
		strings.Join(sets, ", "), len(args)+1,
	)
	args = append(args, id)

	var c model.Campaign
	if err := r.DB.GetContext(ctx, &c, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, fmt.Errorf("update campaign %d: %w", id, err)
	}
	return &c, nil
}

func buildSetClause(changes model.CampaignChanges) ([]string, []interface{}) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if changes.Name != nil {
		add("name", *changes.Name)
	}
	if changes.Type != nil {
		add("type", *changes.Type)
	}
	if changes.Description != nil {
		add("description", *changes.Description)
	}
	if changes.Status != nil {
		add("status", *changes.Status)
	}
	if changes.Sent != nil {
		add("sent", *changes.Sent)
	}
	if changes.Replies != nil {
		add("replies", *changes.Replies)
	}
	sets = append(sets, "updated_at = NOW()")
	return sets, args
}

func (r *CampaignRepository) Delete(ctx context.Context, id int64) error {
	var deleted int64
	err := r.DB.QueryRowxContext(ctx, `DELETE FROM campaigns WHERE id = $1 RETURNING id`, id).Scan(&deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NewCampaignNotFound(id)
		}
		return fmt.Errorf("delete campaign %d: %w", id, err)
	}
	return nil
}

// ====================== Dashboard ======================

func (r *CampaignRepository) DashboardTotals(ctx context.Context) (model.CampaignTotals, error) {
	query := `
        SELECT
            COUNT(CASE WHEN status = 'Active' THEN 1 END) AS active_campaigns,
            COALESCE(SUM(sent), 0) AS total_sent,
            COALESCE(SUM(replies), 0) AS total_replies
        FROM campaigns
    `
	var totals model.CampaignTotals
	if err := r.DB.GetContext(ctx, &totals, query); err != nil {
		return model.CampaignTotals{}, fmt.Errorf("dashboard totals: %w", err)
	}
	return totals, nil
}

func (r *CampaignRepository) Ping(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `SELECT 1`)
	return err
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
