// Package postgres is the link store: links, their access log and the
// aggregates the warmup engine ranks candidates by.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shortlink/internal/domain/models"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

const (
	storageMaxOpenConnections     = 5
	storageMaxIdleConnections     = 2
	storageConnectionsMaxIdleTime = 2 * time.Minute
	storageConnectionsLifetime    = 30 * time.Minute
	storagePingTimeout            = 5 * time.Second
)

const (
	pgErrCodeUniqueViolation = "23505"
)

const linkColumns = "id, short_code, original_url, user_id, created_at, expires_at, click_count, last_access_at"

type PostgresStorage struct {
	db *sql.DB
}

// NewStorage opens the pool, checks connectivity and migrates the schema.
func NewStorage(ctx context.Context, dsn string, log zerolog.Logger) (*PostgresStorage, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	initConnectionPools(db)

	ctxPing, cancel := context.WithTimeout(ctx, storagePingTimeout)
	defer cancel()

	if err := db.PingContext(ctxPing); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(db, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &PostgresStorage{db: db}, nil
}

// New wraps an existing pool without migrating it.
func New(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func initConnectionPools(db *sql.DB) {
	db.SetMaxOpenConns(storageMaxOpenConnections)
	db.SetMaxIdleConns(storageMaxIdleConnections)
	db.SetConnMaxIdleTime(storageConnectionsMaxIdleTime)
	db.SetConnMaxLifetime(storageConnectionsLifetime)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (models.LinkRecord, error) {
	var (
		link         models.LinkRecord
		expiresAt    sql.NullTime
		lastAccessAt sql.NullTime
	)
	err := row.Scan(&link.ID, &link.ShortCode, &link.OriginalURL, &link.UserID,
		&link.CreatedAt, &expiresAt, &link.ClickCount, &lastAccessAt)
	if err != nil {
		return models.LinkRecord{}, err
	}
	if expiresAt.Valid {
		link.ExpiresAt = &expiresAt.Time
	}
	if lastAccessAt.Valid {
		link.LastAccessAt = &lastAccessAt.Time
	}
	return link, nil
}

// Insert stores a new link and returns its id. A taken short code or id is
// reported as models.ErrConflict.
func (p *PostgresStorage) Insert(ctx context.Context, link models.LinkRecord) (int64, error) {
	if link.ShortCode == "" || link.OriginalURL == "" {
		return 0, models.ErrInvalidData
	}

	var id int64
	err := p.querier(ctx).QueryRowContext(ctx, `
		INSERT INTO links (id, short_code, original_url, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (short_code) DO NOTHING
		RETURNING id`,
		link.ID, link.ShortCode, link.OriginalURL, link.UserID, link.CreatedAt, link.ExpiresAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s", models.ErrConflict, link.ShortCode)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return 0, fmt.Errorf("%w: %s", models.ErrConflict, pgErr.ConstraintName)
		}
		return 0, fmt.Errorf("failed to insert link: %w", err)
	}
	return id, nil
}

func (p *PostgresStorage) FindByShortCode(ctx context.Context, code string) (models.LinkRecord, error) {
	if code == "" {
		return models.LinkRecord{}, fmt.Errorf("%w: short code must not be empty", models.ErrInvalidData)
	}

	link, err := scanLink(p.querier(ctx).QueryRowContext(ctx,
		"SELECT "+linkColumns+" FROM links WHERE short_code = $1", code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LinkRecord{}, fmt.Errorf("%w: short code %s", models.ErrUnfound, code)
		}
		return models.LinkRecord{}, fmt.Errorf("failed to get link: %w", err)
	}
	return link, nil
}

// ShortCodes streams every stored short code to fn. An fn error stops the scan.
func (p *PostgresStorage) ShortCodes(ctx context.Context, fn func(code string) error) error {
	rows, err := p.querier(ctx).QueryContext(ctx, "SELECT short_code FROM links")
	if err != nil {
		return fmt.Errorf("failed to query short codes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return fmt.Errorf("failed to scan short code: %w", err)
		}
		if err := fn(code); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration error: %w", err)
	}
	return nil
}

// RecordAccess appends to the access log and bumps the link counters in
// one transaction.
func (p *PostgresStorage) RecordAccess(ctx context.Context, ev models.AccessEvent) error {
	if ev.ShortCode == "" || ev.OccurredAt.IsZero() {
		return models.ErrInvalidData
	}

	return p.WithinTx(ctx, func(ctx context.Context) error {
		q := p.querier(ctx)

		res, err := q.ExecContext(ctx, `
			UPDATE links
			SET click_count = click_count + 1,
			    last_access_at = GREATEST(COALESCE(last_access_at, $2), $2)
			WHERE short_code = $1`,
			ev.ShortCode, ev.OccurredAt)
		if err != nil {
			return fmt.Errorf("failed to update link counters: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: short code %s", models.ErrUnfound, ev.ShortCode)
		}

		_, err = q.ExecContext(ctx, `
			INSERT INTO link_access_log (short_code, user_id, ip, region, user_agent, accessed_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			ev.ShortCode, ev.UserID, ev.IP, ev.Region, ev.UserAgent, ev.OccurredAt)
		if err != nil {
			return fmt.Errorf("failed to insert access log: %w", err)
		}
		return nil
	})
}

func (p *PostgresStorage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, storagePingTimeout)
	defer cancel()

	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func (p *PostgresStorage) Close() error {
	if err := p.db.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}
