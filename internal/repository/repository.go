package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/themis/internal/models"
)

type Repository struct {
	db  Database
	log *slog.Logger
}

type Interface interface {
	EnsureSchema(ctx context.Context) error
	FetchDistrictMapping(ctx context.Context) (models.DistrictCourtMap, error)
	ReplaceDistrictMapping(ctx context.Context, districts models.DistrictCourtMap) error
	SaveMatchRun(ctx context.Context, runID string, results []models.MatchResult) error
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
