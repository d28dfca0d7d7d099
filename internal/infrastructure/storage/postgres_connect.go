package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/lib/pq"
)

const (
	postgresConnectAttemptsDefault = 20
	postgresConnectDelayDefault    = 2 * time.Second

	// https://www.postgresql.org/docs/current/errcodes-appendix.html
	pqInvalidCatalogName = "3D000"
	pqDuplicateDatabase  = "42P04"
)

// PostgresOptions ulanish parametrlari
type PostgresOptions struct {
	DSN      string
	Attempts int
	Delay    time.Duration
}

// openPostgresWithRetry baza ko'tarilguncha qayta urinadi.
// Baza mavjud bo'lmasa, bir marta "postgres" bazasi orqali yaratishga harakat qiladi.
func openPostgresWithRetry(ctx context.Context, opts PostgresOptions) (*sql.DB, error) {
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = postgresConnectAttemptsDefault
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = postgresConnectDelayDefault
	}

	var lastErr error
	created := false
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sql.Open("postgres", opts.DSN)
		if err == nil {
			if pingErr := db.PingContext(ctx); pingErr == nil {
				return db, nil
			} else {
				err = pingErr
			}
		}
		if db != nil {
			_ = db.Close()
		}
		lastErr = err
		if !created && isDatabaseMissingError(err) {
			if createErr := ensurePostgresDatabase(ctx, opts.DSN); createErr == nil {
				created = true
				continue
			} else {
				lastErr = createErr
			}
		}
		if attempt < attempts {
			log.Printf("⏳ Postgres ulanmadi (urinish %d/%d): %v", attempt, attempts, err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("postgres connection failed")
	}
	return nil, lastErr
}

func ensurePostgresDatabase(ctx context.Context, dsn string) error {
	adminDSN, dbName, err := maintenanceDSN(dsn)
	if err != nil {
		return err
	}
	db, err := sql.Open("postgres", adminDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(dbName)); err != nil {
		if isPQCode(err, pqDuplicateDatabase) {
			return nil
		}
		return fmt.Errorf("create database %s: %w", dbName, err)
	}
	log.Printf("✅ Postgres bazasi yaratildi: %s", dbName)
	return nil
}

// maintenanceDSN URL ko'rinishidagi DSN dan "postgres" bazasiga ulanish satrini yasaydi
func maintenanceDSN(dsn string) (string, string, error) {
	trimmed := strings.TrimSpace(dsn)
	if !strings.HasPrefix(trimmed, "postgres://") && !strings.HasPrefix(trimmed, "postgresql://") {
		return "", "", fmt.Errorf("only URL DSNs support database auto-create")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", "", fmt.Errorf("parse dsn: %w", err)
	}
	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", "", fmt.Errorf("database name not found in dsn")
	}
	u.Path = "/postgres"
	return u.String(), dbName, nil
}

func isPQCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}

func isDatabaseMissingError(err error) bool {
	if err == nil {
		return false
	}
	if isPQCode(err, pqInvalidCatalogName) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "does not exist") && strings.Contains(msg, "database")
}
