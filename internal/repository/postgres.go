package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/UnknownOlympus/themis/internal/models"
	"github.com/jackc/pgx/v5"
)

const schemaDDL = `
	CREATE TABLE IF NOT EXISTS court_districts (
		district TEXT PRIMARY KEY,
		court    TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS court_match_results (
		run_id     TEXT        NOT NULL,
		position   INTEGER     NOT NULL,
		address    TEXT        NOT NULL,
		court      TEXT        NOT NULL,
		district   TEXT,
		source     TEXT        NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (run_id, position)
	);
`

// EnsureSchema creates the mapping and result tables when they are missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// FetchDistrictMapping reads the whole district to court table.
func (r *Repository) FetchDistrictMapping(ctx context.Context) (models.DistrictCourtMap, error) {
	query := `
		SELECT district, court
		FROM court_districts
		ORDER BY district;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query district mapping: %w", err)
	}
	defer rows.Close()

	districts := make(models.DistrictCourtMap)
	for rows.Next() {
		var district, court string
		if errScan := rows.Scan(&district, &court); errScan != nil {
			return nil, fmt.Errorf("failed to scan district mapping: %w", errScan)
		}
		districts[district] = court
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	r.log.DebugContext(ctx, "District mapping fetched from database", "districts", len(districts))

	return districts, nil
}

// ReplaceDistrictMapping swaps the stored mapping for districts in a single
// transaction. Districts are written in sorted order.
func (r *Repository) ReplaceDistrictMapping(ctx context.Context, districts models.DistrictCourtMap) error {
	deleteQuery := `DELETE FROM court_districts;`
	insertQuery := `
		INSERT INTO court_districts (district, court)
		VALUES ($1, $2);
	`

	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteQuery); err != nil {
			return fmt.Errorf("failed to clear district mapping: %w", err)
		}

		names := make([]string, 0, len(districts))
		for district := range districts {
			names = append(names, district)
		}
		slices.Sort(names)

		for _, district := range names {
			if _, err := tx.Exec(ctx, insertQuery, district, districts[district]); err != nil {
				return fmt.Errorf("failed to insert district %q: %w", district, err)
			}
		}

		return nil
	})
}

// SaveMatchRun stores the results of one match run under runID, keeping their order.
func (r *Repository) SaveMatchRun(ctx context.Context, runID string, results []models.MatchResult) error {
	query := `
		INSERT INTO court_match_results (run_id, position, address, court, district, source)
		VALUES ($1, $2, $3, $4, $5, $6);
	`

	return r.inTx(ctx, func(tx pgx.Tx) error {
		for idx, result := range results {
			_, err := tx.Exec(ctx, query,
				runID, idx, result.Address, result.Court, nullable(result.District), string(result.Source))
			if err != nil {
				return fmt.Errorf("failed to insert match result %d: %w", idx, err)
			}
		}

		r.log.DebugContext(ctx, "Match run stored", "run_id", runID, "results", len(results))

		return nil
	})
}

func (r *Repository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if errRollback := tx.Rollback(ctx); errRollback != nil {
			r.log.ErrorContext(ctx, "Failed to roll back transaction", "error", errRollback)
		}
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
