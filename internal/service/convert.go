package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/UnknownOlympus/themis/internal/convert"
	"github.com/UnknownOlympus/themis/internal/metrics"
	"github.com/UnknownOlympus/themis/internal/models"
	"github.com/UnknownOlympus/themis/internal/progress"
)

// ConvertRequest lists the inputs (files, directories or glob patterns) and
// the directory receiving the PDFs.
type ConvertRequest struct {
	Inputs    []string
	OutputDir string
}

// ConvertSummary counts the converted files and keeps every failure.
type ConvertSummary struct {
	Succeeded int
	Total     int
	Failures  []models.ConversionResult
}

type documentConverter interface {
	Convert(ctx context.Context, src, outDir string) models.ConversionResult
}

// ConvertService converts Word documents to PDF one at a time.
type ConvertService struct {
	log          *slog.Logger
	resolver     convert.Resolver
	newConverter func(executable string) documentConverter
	metrics      *metrics.Metrics
}

// NewConvertService creates a ConvertService. The office executable is
// resolved at the start of every run.
func NewConvertService(
	log *slog.Logger,
	resolver convert.Resolver,
	runner convert.Runner,
	opts convert.Options,
	metrics *metrics.Metrics,
) *ConvertService {
	return &ConvertService{
		log:      log,
		resolver: resolver,
		newConverter: func(executable string) documentConverter {
			return convert.NewConverter(executable, runner, opts, log)
		},
		metrics: metrics,
	}
}

// Run converts every input document. A document that fails is logged and
// skipped; only a missing output directory, bad inputs or a missing office
// suite stop the run.
func (cs *ConvertService) Run(ctx context.Context, req ConvertRequest, observer progress.Observer) (*ConvertSummary, error) {
	obs := progress.Or(observer)
	start := time.Now()
	defer func() {
		cs.metrics.RunSeconds.WithLabelValues("convert").Observe(time.Since(start).Seconds())
	}()

	if err := requireDir(req.OutputDir, "output directory"); err != nil {
		return nil, err
	}

	files, err := convert.ExpandInputs(req.Inputs)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no Word documents to convert", models.ErrFileNotFound)
	}

	executable, err := cs.resolver.Resolve()
	if err != nil {
		return nil, err
	}
	cs.log.InfoContext(ctx, "Converting documents", "executable", executable, "files", len(files))

	converter := cs.newConverter(executable)
	summary := &ConvertSummary{Total: len(files)}
	for i, file := range files {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		result := converter.Convert(ctx, file, req.OutputDir)
		cs.metrics.ConversionSeconds.Observe(result.Duration.Seconds())

		if result.OK() {
			summary.Succeeded++
			cs.metrics.Conversions.WithLabelValues("success").Inc()
			obs.OnStatus("已转换: " + filepath.Base(file))
		} else {
			summary.Failures = append(summary.Failures, result)
			cs.metrics.Conversions.WithLabelValues("failure").Inc()
			cs.log.WarnContext(ctx, "Conversion failed", "file", file, "attempts", result.Attempts, "error", result.Err)
			obs.OnStatus(fmt.Sprintf("转换失败: %s (%v)", filepath.Base(file), result.Err))
		}
		obs.OnProgress(i+1, len(files))
	}

	obs.OnStatus(fmt.Sprintf("转换完成，共转换 %d/%d 个文件！", summary.Succeeded, summary.Total))

	return summary, nil
}
