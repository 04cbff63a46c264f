package database

import (
	"context"
	"fmt"
	"time"

	"go-vagas-scraper/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS scrape_runs (
	id          UUID PRIMARY KEY,
	started_at  TIMESTAMPTZ NOT NULL,
	run_stamp   TEXT NOT NULL,
	urls        TEXT[] NOT NULL,
	listing_count INTEGER NOT NULL,
	json_file   TEXT,
	xlsx_file   TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS listings (
	run_id       UUID NOT NULL REFERENCES scrape_runs(id) ON DELETE CASCADE,
	position     INTEGER NOT NULL,
	titulo       TEXT NOT NULL,
	empresa      TEXT NOT NULL,
	localizacao  TEXT NOT NULL,
	posicao      TEXT NOT NULL,
	qtde_vagas   TEXT NOT NULL,
	descricao    TEXT NOT NULL,
	link         TEXT NOT NULL,
	publicado_em TEXT NOT NULL,
	PRIMARY KEY (run_id, position)
);`

// listingColumns matches the order of listingRow.
var listingColumns = []string{
	"run_id", "position",
	"titulo", "empresa", "localizacao", "posicao",
	"qtde_vagas", "descricao", "link", "publicado_em",
}

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// Poolers in transaction mode (PgBouncer) do not keep prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// EnsureSchema creates the archive tables if they are missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveRun stores a run and its listings in one transaction.
func (r *Repository) SaveRun(ctx context.Context, run models.Run, listings []models.Listing) error {
	runID, err := parseRunID(run.ID)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO scrape_runs (id, started_at, run_stamp, urls, listing_count, json_file, xlsx_file)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		runID, run.StartedAt, run.Timestamp, run.URLs, len(listings), run.JSONFile, run.XLSXFile)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"listings"},
		listingColumns,
		pgx.CopyFromSlice(len(listings), func(i int) ([]any, error) {
			return listingRow(runID, i, listings[i]), nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy listings: %w", err)
	}
	if int(copied) != len(listings) {
		return fmt.Errorf("copied %d of %d listings", copied, len(listings))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// CountListings returns how many listings were archived for a run.
func (r *Repository) CountListings(ctx context.Context, runID string) (int, error) {
	id, err := parseRunID(runID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM listings WHERE run_id = $1", id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return n, nil
}

func parseRunID(id string) (pgtype.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("invalid run id %q: %w", id, err)
	}
	return pgtype.UUID{Bytes: [16]byte(u), Valid: true}, nil
}

func listingRow(runID pgtype.UUID, position int, l models.Listing) []any {
	return []any{
		runID, position,
		l.Title, l.Company, l.Location, l.Position,
		l.Openings, l.Description, l.Link, l.PublishedAt,
	}
}
