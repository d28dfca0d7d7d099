package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/yourusername/bagshop-bot/internal/domain/entity"
	"github.com/yourusername/bagshop-bot/internal/domain/repository"
)

// SQLiteStore bitta SQLite fayli ichida katalog va arizalar.
// Yozuvlar mu bilan ketma-ket bajariladi.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

var (
	_ repository.CatalogRepository = (*SQLiteCatalog)(nil)
	_ repository.LeadRepository    = (*SQLiteLeads)(nil)
)

// OpenSQLite bazani ochadi va sxemani yaratadi
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS catalog_items (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		price INTEGER NOT NULL,
		colors TEXT NOT NULL DEFAULT '[]',
		description TEXT,
		keywords TEXT NOT NULL DEFAULT '[]',
		photo_file_id TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS photo_index (
		file_id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL REFERENCES catalog_items(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS leads (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		kind TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		username TEXT,
		full_name TEXT,
		city TEXT,
		phone TEXT,
		item_id TEXT,
		details TEXT,
		created_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close bazani yopish
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Catalog katalog repository
func (s *SQLiteStore) Catalog() *SQLiteCatalog {
	return &SQLiteCatalog{store: s}
}

// Leads arizalar repository
func (s *SQLiteStore) Leads() *SQLiteLeads {
	return &SQLiteLeads{store: s}
}

// SQLiteCatalog katalog jadvallari ustida repository
type SQLiteCatalog struct {
	store *SQLiteStore
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func loadCatalog(ctx context.Context, q queryer) (*entity.Catalog, error) {
	c := entity.NewCatalog()

	rows, err := q.QueryContext(ctx, `
	SELECT id, name, price, colors, description, keywords, photo_file_id, created_at
	FROM catalog_items ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it                        entity.CatalogItem
			colors, keywords          string
			description, photoFileID sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &colors, &description, &keywords, &photoFileID, &it.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(colors), &it.Colors); err != nil {
			return nil, fmt.Errorf("decode colors of %s: %w", it.ID, err)
		}
		if err := json.Unmarshal([]byte(keywords), &it.Keywords); err != nil {
			return nil, fmt.Errorf("decode keywords of %s: %w", it.ID, err)
		}
		it.Description = description.String
		it.PhotoFileID = photoFileID.String
		c.Items = append(c.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	idx, err := q.QueryContext(ctx, `SELECT file_id, item_id FROM photo_index`)
	if err != nil {
		return nil, err
	}
	defer idx.Close()
	for idx.Next() {
		var fileID, itemID string
		if err := idx.Scan(&fileID, &itemID); err != nil {
			return nil, err
		}
		c.PhotoIndex[fileID] = itemID
	}
	return c, idx.Err()
}

func (r *SQLiteCatalog) Snapshot(ctx context.Context) (*entity.Catalog, error) {
	return loadCatalog(ctx, r.store.db)
}

func (r *SQLiteCatalog) Get(ctx context.Context, id string) (*entity.CatalogItem, error) {
	c, err := loadCatalog(ctx, r.store.db)
	if err != nil {
		return nil, err
	}
	item, ok := c.Find(id)
	if !ok {
		return nil, fmt.Errorf("catalog item %s: %w", id, repository.ErrNotFound)
	}
	return &item, nil
}

func (r *SQLiteCatalog) Add(ctx context.Context, item entity.CatalogItem) (entity.CatalogItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return entity.CatalogItem{}, err
	}
	defer tx.Rollback()

	c, err := loadCatalog(ctx, tx)
	if err != nil {
		return entity.CatalogItem{}, err
	}
	added := c.Add(item)

	colors, _ := json.Marshal(nonNilStrings(added.Colors))
	keywords, _ := json.Marshal(nonNilStrings(added.Keywords))
	if _, err := tx.ExecContext(ctx, `
	INSERT INTO catalog_items (id, name, price, colors, description, keywords, photo_file_id, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		added.ID, added.Name, added.Price, string(colors), added.Description, string(keywords), added.PhotoFileID, added.CreatedAt); err != nil {
		return entity.CatalogItem{}, fmt.Errorf("insert catalog item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return entity.CatalogItem{}, err
	}
	return added, nil
}

func (r *SQLiteCatalog) SetPhoto(ctx context.Context, itemID, fileID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE catalog_items SET photo_file_id = ? WHERE id = ?`, fileID, itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("catalog item %s: %w", itemID, repository.ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM photo_index WHERE item_id = ?`, itemID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO photo_index (file_id, item_id) VALUES (?, ?)`, fileID, itemID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteCatalog) Clear(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM photo_index`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_items`); err != nil {
		return err
	}
	return tx.Commit()
}

// SQLiteLeads arizalar jadvali ustida repository
type SQLiteLeads struct {
	store *SQLiteStore
}

func (r *SQLiteLeads) Append(ctx context.Context, lead entity.Lead) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, err := r.store.db.ExecContext(ctx, `
	INSERT INTO leads (id, kind, user_id, username, full_name, city, phone, item_id, details, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID, string(lead.Kind), lead.UserID, lead.Username, lead.FullName,
		lead.City, lead.Phone, lead.ItemID, lead.Details, lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *SQLiteLeads) List(ctx context.Context) ([]entity.Lead, error) {
	rows, err := r.store.db.QueryContext(ctx, `
	SELECT id, kind, user_id, username, full_name, city, phone, item_id, details, created_at
	FROM leads ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeads(rows)
}

func (r *SQLiteLeads) Clear(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, err := r.store.db.ExecContext(ctx, `DELETE FROM leads`)
	return err
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
