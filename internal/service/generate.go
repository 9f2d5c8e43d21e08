package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/UnknownOlympus/themis/internal/docgen"
	"github.com/UnknownOlympus/themis/internal/metrics"
	"github.com/UnknownOlympus/themis/internal/progress"
)

// GenerateRequest names the template, the data sheet and the output directory.
type GenerateRequest struct {
	TemplatePath string
	SheetPath    string
	OutputDir    string
}

// GenerateSummary lists the documents written by a run.
type GenerateSummary struct {
	Total int
	Files []string
}

// GenerateService fills a document template once per spreadsheet row.
type GenerateService struct {
	log            *slog.Logger
	renderer       docgen.Renderer
	readerFor      func(path string) (docgen.SheetReader, error)
	filenameColumn string
	metrics        *metrics.Metrics
}

func NewGenerateService(
	log *slog.Logger,
	renderer docgen.Renderer,
	filenameColumn string,
	metrics *metrics.Metrics,
) *GenerateService {
	return &GenerateService{
		log:            log,
		renderer:       renderer,
		readerFor:      docgen.ReaderFor,
		filenameColumn: filenameColumn,
		metrics:        metrics,
	}
}

// Run renders one document per row into req.OutputDir. The run stops at the
// first row that fails to render.
func (gs *GenerateService) Run(ctx context.Context, req GenerateRequest, observer progress.Observer) (*GenerateSummary, error) {
	obs := progress.Or(observer)
	start := time.Now()
	defer func() {
		gs.metrics.RunSeconds.WithLabelValues("generate").Observe(time.Since(start).Seconds())
	}()

	if err := requireFile(req.TemplatePath, "template"); err != nil {
		return nil, err
	}
	if err := requireFile(req.SheetPath, "spreadsheet"); err != nil {
		return nil, err
	}
	if err := requireDir(req.OutputDir, "output directory"); err != nil {
		return nil, err
	}

	reader, err := gs.readerFor(req.SheetPath)
	if err != nil {
		return nil, err
	}
	records, err := reader.ReadRecords(req.SheetPath)
	if err != nil {
		return nil, err
	}

	summary := &GenerateSummary{Total: len(records), Files: make([]string, 0, len(records))}
	for i, record := range records {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		dst := filepath.Join(req.OutputDir, docgen.OutputName(record, i, gs.filenameColumn))
		if err = gs.renderer.Render(req.TemplatePath, record.Values, dst); err != nil {
			return nil, fmt.Errorf("failed to generate document for row %d: %w", i+1, err)
		}

		gs.log.DebugContext(ctx, "Document generated", "row", i+1, "file", dst)
		gs.metrics.DocumentsGenerated.Inc()
		summary.Files = append(summary.Files, dst)
		obs.OnProgress(i+1, len(records))
	}

	gs.log.InfoContext(ctx, "Generation finished", "documents", summary.Total, "output", req.OutputDir)
	obs.OnStatus(fmt.Sprintf("生成完毕，共处理 %d 条记录！", summary.Total))

	return summary, nil
}
