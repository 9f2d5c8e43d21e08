package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/themis/internal/convert"
	"github.com/UnknownOlympus/themis/internal/models"
	"github.com/UnknownOlympus/themis/internal/progress"
	"github.com/UnknownOlympus/themis/test/mocks"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConverter struct {
	executable string
	calls      []string
}

func (f *fakeConverter) Convert(_ context.Context, src, outDir string) models.ConversionResult {
	f.calls = append(f.calls, src)
	result := models.ConversionResult{Source: src, Attempts: 1, Duration: time.Millisecond}
	if strings.Contains(filepath.Base(src), "broken") {
		result.Attempts = 2
		result.Err = errors.Join(models.ErrExternalProcess, errors.New("exit status 1"))
		return result
	}
	result.Output = filepath.Join(outDir, strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))+".pdf")
	return result
}

func TestConvertService_Run(t *testing.T) {
	defer filet.CleanUp(t)
	inDir := filet.TmpDir(t, "")
	outDir := filet.TmpDir(t, "")
	filet.File(t, filepath.Join(inDir, "a.docx"), "a")
	filet.File(t, filepath.Join(inDir, "broken.doc"), "b")
	filet.File(t, filepath.Join(inDir, "c.docx"), "c")
	filet.File(t, filepath.Join(inDir, "notes.txt"), "ignored")
	ctx := t.Context()

	newService := func(t *testing.T) (*ConvertService, *mocks.Resolver, *fakeConverter) {
		resolver := mocks.NewResolver(t)
		fake := &fakeConverter{}
		svc := NewConvertService(newTestLogger(), resolver, convert.ExecRunner{}, convert.Options{}, newTestMetrics())
		svc.newConverter = func(executable string) documentConverter {
			fake.executable = executable
			return fake
		}
		return svc, resolver, fake
	}

	t.Run("failures are skipped", func(t *testing.T) {
		svc, resolver, fake := newService(t)
		recorder := &progress.Recorder{}

		resolver.On("Resolve").Return("/usr/bin/soffice", nil).Once()

		summary, err := svc.Run(ctx, ConvertRequest{Inputs: []string{inDir}, OutputDir: outDir}, recorder)

		require.NoError(t, err)
		assert.Equal(t, "/usr/bin/soffice", fake.executable)
		assert.Len(t, fake.calls, 3)
		assert.Equal(t, 2, summary.Succeeded)
		assert.Equal(t, 3, summary.Total)
		require.Len(t, summary.Failures, 1)
		assert.Equal(t, "broken.doc", filepath.Base(summary.Failures[0].Source))
		require.ErrorIs(t, summary.Failures[0].Err, models.ErrExternalProcess)
		assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, recorder.Progress)
		assert.Equal(t, "转换完成，共转换 2/3 个文件！", recorder.Lines[len(recorder.Lines)-1])
		assert.InDelta(t, 2, testutil.ToFloat64(svc.metrics.Conversions.WithLabelValues("success")), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(svc.metrics.Conversions.WithLabelValues("failure")), 0)
	})

	t.Run("office suite not found", func(t *testing.T) {
		svc, resolver, fake := newService(t)

		resolver.On("Resolve").Return("", convert.ErrExecutableNotFound).Once()

		summary, err := svc.Run(ctx, ConvertRequest{Inputs: []string{inDir}, OutputDir: outDir}, nil)

		require.ErrorIs(t, err, models.ErrFileNotFound)
		assert.Nil(t, summary)
		assert.Empty(t, fake.calls)
	})

	t.Run("output directory must exist", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.Run(ctx, ConvertRequest{Inputs: []string{inDir}, OutputDir: filepath.Join(outDir, "absent")}, nil)

		require.ErrorIs(t, err, models.ErrFileNotFound)
	})

	t.Run("no documents", func(t *testing.T) {
		svc, _, _ := newService(t)
		empty := filet.TmpDir(t, "")

		_, err := svc.Run(ctx, ConvertRequest{Inputs: []string{empty}, OutputDir: outDir}, nil)

		require.ErrorIs(t, err, models.ErrFileNotFound)
	})

	t.Run("cancelled context stops the batch", func(t *testing.T) {
		svc, resolver, fake := newService(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		resolver.On("Resolve").Return("/usr/bin/soffice", nil).Once()

		_, err := svc.Run(cancelled, ConvertRequest{Inputs: []string{inDir}, OutputDir: outDir}, nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, fake.calls)
	})
}
