package batch

import (
	"context"
	"errors"
	"fmt"

	"spare-manager/core/registry"
	"spare-manager/core/sheet"
	"spare-manager/core/utils"
	"spare-manager/feature/inspection/extract"
	"spare-manager/feature/inspection/models"
	"spare-manager/feature/inspection/source"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of files processed at once.
const DefaultConcurrency = 10

// ErrNoIdentifier marks a spreadsheet without an identifier column.
var ErrNoIdentifier = errors.New("no identifier column found")

// Classifier classifies one scanned file.
type Classifier interface {
	ClassifyFile(ctx context.Context, res extract.Result) (*models.FileResult, error)
}

// Failure records a file that contributed nothing.
type Failure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Result is the merged outcome of a batch.
type Result struct {
	Summary    models.Summary
	Unknown    *models.CandidateQueue
	Vulnerable *models.VulnerableList
	Failed     []Failure
	// ByModel counts the report entries per inferred model.
	ByModel map[string]int
}

// Runner processes files in bounded chunks.
type Runner struct {
	classifier  Classifier
	scheme      registry.KeyScheme
	concurrency int
	logger      *zap.Logger
}

// NewRunner creates a runner. A non-positive concurrency uses DefaultConcurrency.
func NewRunner(classifier Classifier, scheme registry.KeyScheme, concurrency int, logger *zap.Logger) *Runner {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{classifier: classifier, scheme: scheme, concurrency: concurrency, logger: logger}
}

// Run processes files chunk by chunk; each chunk runs concurrently and is
// joined before the next one starts. A file that cannot be read or has no
// identifier column is recorded in Failed and skipped. A registry failure
// aborts the run after the current chunk.
func (r *Runner) Run(ctx context.Context, files []source.File) (*Result, error) {
	results := make([]*models.FileResult, len(files))
	failures := make([]*Failure, len(files))

	offset := 0
	for _, chunk := range utils.Batch(files, r.concurrency) {
		// Plain group: files already admitted are never cancelled.
		var g errgroup.Group
		for i, f := range chunk {
			idx := offset + i
			g.Go(func() error {
				res, err := r.processFile(ctx, f)
				if err == nil {
					results[idx] = res
					return nil
				}
				var fe *fileError
				if errors.As(err, &fe) {
					r.logger.Warn("Skipping spreadsheet", zap.String("file", f.Name()), zap.Error(fe.err))
					failures[idx] = &Failure{File: f.Name(), Error: fe.err.Error()}
					return nil
				}
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		offset += len(chunk)
	}

	out := r.merge(results, failures)
	out.Summary.TotalFiles = len(files)

	fields := []zap.Field{
		zap.Int("files", out.Summary.TotalFiles),
		zap.Int("failed", out.Summary.FailedFiles),
		zap.Int("rows", out.Summary.TotalRows),
		zap.Int("matched_white", out.Summary.MatchedWhite),
		zap.Int("matched_black", out.Summary.MatchedBlack),
		zap.Int("unknown", out.Summary.Unknown),
		zap.Int("vulnerable", out.Summary.Vulnerable),
	}
	for model, n := range out.ByModel {
		fields = append(fields, zap.Int("model_"+modelLabel(model), n))
	}
	r.logger.Info("Batch processed", fields...)
	return out, nil
}

func (r *Runner) merge(results []*models.FileResult, failures []*Failure) *Result {
	out := &Result{
		Unknown:    models.NewCandidateQueue(),
		Vulnerable: models.NewVulnerableList(r.scheme.KeyOf),
		ByModel:    make(map[string]int),
	}
	for i, res := range results {
		if f := failures[i]; f != nil {
			out.Failed = append(out.Failed, *f)
			continue
		}
		if res == nil {
			continue
		}
		out.Summary.TotalRows += res.TotalRows
		out.Summary.ExtractedRows += res.ExtractedRows
		out.Summary.MatchedWhite += res.MatchedWhite
		out.Summary.MatchedBlack += res.MatchedBlack
		out.Summary.Unmatched += res.Unmatched
		out.Unknown.Merge(res.Unknown)
		out.Vulnerable.Merge(res.Vulnerable)
	}

	for _, e := range out.Vulnerable.Entries() {
		out.ByModel[e.Model]++
	}
	out.Summary.FailedFiles = len(out.Failed)
	out.Summary.Unknown = out.Unknown.Len()
	out.Summary.Vulnerable = out.Vulnerable.Len()
	return out
}

type fileError struct {
	err error
}

func (e *fileError) Error() string {
	return e.err.Error()
}

func (e *fileError) Unwrap() error {
	return e.err
}

func (r *Runner) processFile(ctx context.Context, f source.File) (*models.FileResult, error) {
	grid, err := load(ctx, f)
	if err != nil {
		return nil, &fileError{err: err}
	}

	scan := extract.Scan(f.Name(), grid)
	if !scan.HasIdentifier() {
		return nil, &fileError{err: ErrNoIdentifier}
	}

	return r.classifier.ClassifyFile(ctx, scan)
}

func load(ctx context.Context, f source.File) (sheet.Grid, error) {
	rc, err := f.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open: %w", err)
	}
	defer rc.Close()

	return sheet.Parse(rc)
}

func modelLabel(model string) string {
	if model == "" {
		return "none"
	}
	return model
}
