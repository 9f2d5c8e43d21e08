package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/themis/internal/geocoding"
	"github.com/UnknownOlympus/themis/internal/jurisdiction"
	"github.com/UnknownOlympus/themis/internal/metrics"
	"github.com/UnknownOlympus/themis/internal/models"
	"github.com/UnknownOlympus/themis/internal/progress"
	"github.com/UnknownOlympus/themis/internal/repository"
	"github.com/google/uuid"
)

// MappingSource tells where the district mapping is read from.
type MappingSource string

const (
	MappingFromFile     MappingSource = "file"
	MappingFromPostgres MappingSource = "postgres"
)

// ErrNoDatabase is returned when a request needs the database but none is configured.
var ErrNoDatabase = errors.New("no database configured")

// MatchRequest describes one matching run.
type MatchRequest struct {
	MappingPath   string        // CSV mapping table, used with MappingFromFile.
	MappingSource MappingSource // Defaults to MappingFromFile.
	AddressPath   string        // One address per line.
	OutputPath    string        // Result CSV, replaced atomically.
	Persist       bool          // Store the results in the database as well.
}

// MatchSummary reports the outcome of a run.
type MatchSummary struct {
	RunID      string
	OutputPath string
	Total      int
	Resolved   int
	Unresolved int
	Geocoded   int
}

// MatchService assigns courts to addresses.
type MatchService struct {
	log      *slog.Logger
	loader   *jurisdiction.MappingLoader
	repo     repository.Interface // nil without a database
	provider geocoding.Provider   // nil when the geocoder fallback is off
	metrics  *metrics.Metrics
	newRunID func() string
}

// NewMatchService creates a MatchService. repo and provider may be nil.
func NewMatchService(
	log *slog.Logger,
	loader *jurisdiction.MappingLoader,
	repo repository.Interface,
	provider geocoding.Provider,
	metrics *metrics.Metrics,
) *MatchService {
	return &MatchService{
		log:      log,
		loader:   loader,
		repo:     repo,
		provider: provider,
		metrics:  metrics,
		newRunID: uuid.NewString,
	}
}

// Run loads the mapping, matches every address and writes the result file.
// Steps run one after another; the first failing step ends the run.
func (ms *MatchService) Run(ctx context.Context, req MatchRequest, observer progress.Observer) (*MatchSummary, error) {
	obs := progress.Or(observer)
	start := time.Now()
	defer func() {
		ms.metrics.RunSeconds.WithLabelValues("match").Observe(time.Since(start).Seconds())
	}()

	if req.Persist && ms.repo == nil {
		return nil, fmt.Errorf("cannot store match run: %w", ErrNoDatabase)
	}

	districts, err := ms.loadMapping(ctx, req)
	if err != nil {
		return nil, err
	}
	obs.OnStatus(fmt.Sprintf("已加载 %d 个区县", len(districts)))

	addresses, err := jurisdiction.ReadAddressesFile(req.AddressPath)
	if err != nil {
		return nil, err
	}
	obs.OnStatus(fmt.Sprintf("已读取 %d 条地址", len(addresses)))

	matcher := jurisdiction.NewMatcher(districts)
	results := matcher.Match(addresses)

	summary := &MatchSummary{RunID: ms.newRunID(), OutputPath: req.OutputPath, Total: len(results)}

	if ms.provider != nil {
		if summary.Geocoded, err = ms.geocode(ctx, matcher, results); err != nil {
			return nil, err
		}
	}

	for _, result := range results {
		if result.Resolved() {
			summary.Resolved++
		}
		ms.metrics.Addresses.WithLabelValues(string(result.Source)).Inc()
	}
	summary.Unresolved = summary.Total - summary.Resolved
	obs.OnProgress(summary.Total, summary.Total)

	if err = jurisdiction.WriteResultsFile(req.OutputPath, results); err != nil {
		return nil, err
	}

	if req.Persist {
		if err = ms.repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		if err = ms.repo.SaveMatchRun(ctx, summary.RunID, results); err != nil {
			return nil, err
		}
	}

	ms.log.InfoContext(ctx, "Match run finished",
		"run_id", summary.RunID,
		"total", summary.Total,
		"resolved", summary.Resolved,
		"geocoded", summary.Geocoded,
		"output", summary.OutputPath,
	)
	obs.OnStatus("匹配完成，结果已写入 " + req.OutputPath)

	return summary, nil
}

func (ms *MatchService) loadMapping(ctx context.Context, req MatchRequest) (models.DistrictCourtMap, error) {
	switch req.MappingSource {
	case MappingFromFile, "":
		return ms.loader.LoadFile(ctx, req.MappingPath)
	case MappingFromPostgres:
		if ms.repo == nil {
			return nil, fmt.Errorf("cannot load mapping: %w", ErrNoDatabase)
		}
		return ms.repo.FetchDistrictMapping(ctx)
	default:
		return nil, fmt.Errorf("%w: unknown mapping source %q", models.ErrMalformedInput, req.MappingSource)
	}
}

// geocode asks the provider for the district of every unresolved address and
// resolves that district through the matcher. Provider failures leave the
// address unresolved.
func (ms *MatchService) geocode(
	ctx context.Context,
	matcher *jurisdiction.Matcher,
	results []models.MatchResult,
) (int, error) {
	geocoded := 0
	for i := range results {
		if results[i].Resolved() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return geocoded, err
		}

		district, err := ms.provider.District(ctx, results[i].Address)
		if err != nil {
			ms.log.WarnContext(ctx, "Geocoder could not resolve address", "address", results[i].Address, "error", err)
			continue
		}

		court, matched, ok := matcher.Resolve(district)
		if !ok {
			ms.log.DebugContext(ctx, "Geocoded district is not in the mapping", "address", results[i].Address, "district", district)
			continue
		}

		results[i].Court = court
		results[i].District = matched
		results[i].Source = models.SourceGeocoder
		geocoded++
	}

	return geocoded, nil
}

// ImportMapping loads a mapping table and replaces the stored mapping with it.
func (ms *MatchService) ImportMapping(ctx context.Context, path string, observer progress.Observer) (int, error) {
	obs := progress.Or(observer)
	if ms.repo == nil {
		return 0, fmt.Errorf("cannot import mapping: %w", ErrNoDatabase)
	}

	districts, err := ms.loader.LoadFile(ctx, path)
	if err != nil {
		return 0, err
	}

	if err = ms.repo.EnsureSchema(ctx); err != nil {
		return 0, err
	}
	if err = ms.repo.ReplaceDistrictMapping(ctx, districts); err != nil {
		return 0, err
	}

	ms.log.InfoContext(ctx, "District mapping imported", "path", path, "districts", len(districts))
	obs.OnStatus(fmt.Sprintf("导入完成，共 %d 个区县", len(districts)))

	return len(districts), nil
}
