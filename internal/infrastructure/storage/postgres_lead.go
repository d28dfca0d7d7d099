package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yourusername/bagshop-bot/internal/domain/entity"
	"github.com/yourusername/bagshop-bot/internal/domain/repository"
)

type postgresLeadRepository struct {
	db *sql.DB
}

// NewPostgresLeadRepository Postgres da arizalar jadvali
func NewPostgresLeadRepository(ctx context.Context, opts PostgresOptions) (repository.LeadRepository, error) {
	db, err := openPostgresWithRetry(ctx, opts)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	schema := `
CREATE TABLE IF NOT EXISTS leads (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	user_id BIGINT NOT NULL,
	username TEXT,
	full_name TEXT,
	city TEXT,
	phone TEXT,
	item_id TEXT,
	details TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create leads table: %w", err)
	}

	return &postgresLeadRepository{db: db}, nil
}

func (p *postgresLeadRepository) Append(ctx context.Context, lead entity.Lead) error {
	_, err := p.db.ExecContext(ctx, `
	INSERT INTO leads (id, kind, user_id, username, full_name, city, phone, item_id, details, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		lead.ID, string(lead.Kind), lead.UserID, lead.Username, lead.FullName,
		lead.City, lead.Phone, lead.ItemID, lead.Details, lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (p *postgresLeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	rows, err := p.db.QueryContext(ctx, `
	SELECT id, kind, user_id, username, full_name, city, phone, item_id, details, created_at
	FROM leads ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeads(rows)
}

func (p *postgresLeadRepository) Clear(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM leads`)
	return err
}

// scanLeads Postgres va SQLite uchun umumiy
func scanLeads(rows *sql.Rows) ([]entity.Lead, error) {
	res := []entity.Lead{}
	for rows.Next() {
		var (
			lead                                            entity.Lead
			kind                                            string
			username, fullName, city, phone, itemID, details sql.NullString
		)
		if err := rows.Scan(&lead.ID, &kind, &lead.UserID, &username, &fullName, &city, &phone, &itemID, &details, &lead.CreatedAt); err != nil {
			return nil, err
		}
		lead.Kind = entity.LeadKind(kind)
		lead.Username = username.String
		lead.FullName = fullName.String
		lead.City = city.String
		lead.Phone = phone.String
		lead.ItemID = itemID.String
		lead.Details = details.String
		res = append(res, lead)
	}
	return res, rows.Err()
}
