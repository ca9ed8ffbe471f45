package fallback

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrations holds the goose migrations for the Postgres journal.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations to pass to goose.
const MigrationsDir = "migrations"

// journalLockKey serialises capped appends across processes.
const journalLockKey = 0x6e6f74696679 // "notify"

const (
	insertRecordQuery = `INSERT INTO fallback_records (id, recipient, payload, captured_at, status, reason)
VALUES ($1, $2, $3, $4, $5, $6)`
	evictRecordsQuery = `DELETE FROM fallback_records
WHERE seq NOT IN (SELECT seq FROM fallback_records ORDER BY seq DESC LIMIT $1)`
	listRecordsQuery = `SELECT id::text, recipient, payload, captured_at, status, reason
FROM fallback_records ORDER BY seq ASC`
)

// PostgresJournal stores records in the fallback_records table.
type PostgresJournal struct {
	pool *pgxpool.Pool
	max  int
}

// NewPostgresJournal creates a journal on pool. The schema must already be
// migrated with Migrations.
func NewPostgresJournal(pool *pgxpool.Pool, opts ...Option) (*PostgresJournal, error) {
	if pool == nil {
		return nil, fmt.Errorf("%w: postgres pool is required", ErrInvalidConfig)
	}
	o := newOptions(opts)
	return &PostgresJournal{pool: pool, max: o.maxRecords}, nil
}

func (p *PostgresJournal) Append(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	err = pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", int64(journalLockKey)); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, insertRecordQuery,
			rec.ID, rec.Recipient, payload, rec.CapturedAt, rec.Status, rec.Reason,
		); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, evictRecordsQuery, p.max)
		return err
	})
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

func (p *PostgresJournal) List(ctx context.Context) ([]Record, error) {
	rows, err := p.pool.Query(ctx, listRecordsQuery)
	if err != nil {
		return nil, errors.Join(ErrReadFailed, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec     Record
			payload []byte
		)
		if err := rows.Scan(&rec.ID, &rec.Recipient, &payload, &rec.CapturedAt, &rec.Status, &rec.Reason); err != nil {
			return nil, errors.Join(ErrReadFailed, err)
		}
		if err := json.Unmarshal(payload, &rec.Payload); err != nil {
			return nil, errors.Join(ErrReadFailed, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrReadFailed, err)
	}
	return records, nil
}
