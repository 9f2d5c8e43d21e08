package repository_test

import (
	"log/slog"
	"regexp"
	"testing"

	"github.com/UnknownOlympus/themis/internal/models"
	"github.com/UnknownOlympus/themis/internal/repository"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fetchMappingQuery = `
		SELECT district, court
		FROM court_districts
		ORDER BY district;
	`
	deleteMappingQuery = `DELETE FROM court_districts;`
	insertMappingQuery = `
		INSERT INTO court_districts (district, court)
		VALUES ($1, $2);
	`
	insertResultQuery = `
		INSERT INTO court_match_results (run_id, position, address, court, district, source)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
)

func TestEnsureSchema(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()

	t.Run("error - create tables", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS court_districts").WillReturnError(assert.AnError)

		err = repo.EnsureSchema(ctx)

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to create schema")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - create tables", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS court_districts").
			WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

		require.NoError(t, repo.EnsureSchema(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFetchDistrictMapping(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()

	t.Run("error - query mapping", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)
		mock.ExpectQuery(regexp.QuoteMeta(fetchMappingQuery)).WillReturnError(assert.AnError)

		districts, err := repo.FetchDistrictMapping(ctx)

		require.Nil(t, districts)
		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to query district mapping")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - rows error", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)
		mock.ExpectQuery(regexp.QuoteMeta(fetchMappingQuery)).
			WillReturnRows(
				pgxmock.NewRows([]string{"district", "court"}).AddRow("海淀区", "海淀法院").
					RowError(0, assert.AnError),
			)

		districts, err := repo.FetchDistrictMapping(ctx)

		require.Nil(t, districts)
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - fetch mapping", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)
		mock.ExpectQuery(regexp.QuoteMeta(fetchMappingQuery)).
			WillReturnRows(
				pgxmock.NewRows([]string{"district", "court"}).
					AddRow("朝阳区", "北京市朝阳区人民法院").
					AddRow("海淀区", "北京市海淀区人民法院"),
			)

		districts, err := repo.FetchDistrictMapping(ctx)

		require.NoError(t, err)
		assert.Equal(t, models.DistrictCourtMap{
			"朝阳区": "北京市朝阳区人民法院",
			"海淀区": "北京市海淀区人民法院",
		}, districts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReplaceDistrictMapping(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	districts := models.DistrictCourtMap{"海淀区": "海淀法院", "朝阳区": "朝阳法院"}

	t.Run("error - begin transaction", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)
		mock.ExpectBegin().WillReturnError(assert.AnError)

		err = repo.ReplaceDistrictMapping(ctx, districts)

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to begin transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - insert rolls back", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(deleteMappingQuery)).WillReturnResult(pgxmock.NewResult("DELETE", 3))
		mock.ExpectExec(regexp.QuoteMeta(insertMappingQuery)).WithArgs("朝阳区", "朝阳法院").
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err = repo.ReplaceDistrictMapping(ctx, districts)

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to insert district")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - replace mapping", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(deleteMappingQuery)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec(regexp.QuoteMeta(insertMappingQuery)).WithArgs("朝阳区", "朝阳法院").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(regexp.QuoteMeta(insertMappingQuery)).WithArgs("海淀区", "海淀法院").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		require.NoError(t, repo.ReplaceDistrictMapping(ctx, districts))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSaveMatchRun(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	runID := "run-1"
	district := "海淀区"
	results := []models.MatchResult{
		{Address: "北京市海淀区1号", Court: "海淀法院", District: district, Source: models.SourceDictionary},
		{Address: "上海市浦东新区", Court: models.Unresolved, Source: models.SourceNone},
	}

	t.Run("error - commit", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(insertResultQuery)).
			WithArgs(runID, 0, results[0].Address, results[0].Court, &district, "dictionary").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(regexp.QuoteMeta(insertResultQuery)).
			WithArgs(runID, 1, results[1].Address, models.Unresolved, (*string)(nil), "none").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit().WillReturnError(assert.AnError)

		err = repo.SaveMatchRun(ctx, runID, results)

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to commit transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - save run", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(insertResultQuery)).
			WithArgs(runID, 0, results[0].Address, results[0].Court, pgxmock.AnyArg(), "dictionary").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(regexp.QuoteMeta(insertResultQuery)).
			WithArgs(runID, 1, results[1].Address, models.Unresolved, pgxmock.AnyArg(), "none").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		require.NoError(t, repo.SaveMatchRun(ctx, runID, results))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
