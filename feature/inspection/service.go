package inspection

import (
	"context"
	"errors"
	"fmt"
	"path"

	"spare-manager/core/logger"
	"spare-manager/core/registry"
	"spare-manager/core/sheet"
	"spare-manager/core/storage"
	"spare-manager/feature/inspection/batch"
	"spare-manager/feature/inspection/classify"
	"spare-manager/feature/inspection/reconcile"
	"spare-manager/feature/inspection/report"
	"spare-manager/feature/inspection/source"

	"go.uber.org/zap"
)

// ErrStorageDisabled is returned when publishing without a storage client.
var ErrStorageDisabled = errors.New("object storage is disabled")

// Service runs inspections: batch classification, reconciliation of the
// unknown devices and report export.
type Service struct {
	registry *registry.Registry
	runner   *batch.Runner
	runs     *RunStore
	client   storage.Client
	storage  storage.Config
	cfg      Config
	logger   *zap.Logger
}

// NewService creates a new inspection service. client may be nil when
// object storage is disabled.
func NewService(reg *registry.Registry, client storage.Client, storageCfg storage.Config, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := classify.NewEngine(reg, reg.Scheme(), logger)
	return &Service{
		registry: reg,
		runner:   batch.NewRunner(engine, reg.Scheme(), cfg.Concurrency, logger),
		runs:     NewRunStore(cfg.RunTTL()),
		client:   client,
		storage:  storageCfg,
		cfg:      cfg,
		logger:   logger,
	}
}

// Process classifies files and opens a run for their unknown devices.
func (s *Service) Process(ctx context.Context, files []source.File) (Run, error) {
	res, err := s.runner.Run(ctx, files)
	if err != nil {
		return Run{}, err
	}

	run := s.runs.Create(Run{
		Summary: res.Summary,
		Failed:  res.Failed,
		State: reconcile.State{
			Candidates: res.Unknown.Items(),
			Vulnerable: res.Vulnerable,
		},
	})
	logger.WithRun(s.logger, run.ID).Info("Run created",
		zap.Int("unknown", len(run.State.Candidates)),
		zap.Int("vulnerable", run.State.Vulnerable.Len()),
	)
	return run, nil
}

// ProcessBucket processes every spreadsheet stored under prefix.
func (s *Service) ProcessBucket(ctx context.Context, prefix string) (Run, error) {
	if s.client == nil {
		return Run{}, ErrStorageDisabled
	}
	files, err := source.Bucket(ctx, s.client, s.storage.Bucket, prefix)
	if err != nil {
		return Run{}, err
	}
	return s.Process(ctx, files)
}

// Get returns a run.
func (s *Service) Get(id string) (Run, error) {
	return s.runs.Get(id)
}

// Confirm resolves the run's pending candidates. Effects are applied before
// the run advances; if any of them fails the run keeps its pending state.
func (s *Service) Confirm(ctx context.Context, id string, decisions []reconcile.Decision) (Run, error) {
	return s.runs.Update(id, func(run *Run) error {
		next, effects, err := reconcile.Confirm(run.State, s.registry.Scheme(), decisions)
		if err != nil {
			return err
		}
		if err := s.ApplyEffects(ctx, effects); err != nil {
			return err
		}
		run.State = next
		logger.WithRun(s.logger, run.ID).Info("Run confirmed",
			zap.Int("decisions", len(decisions)),
			zap.Int("vulnerable", next.Vulnerable.Len()),
		)
		return nil
	})
}

// ApplyEffects performs the side effects requested by a reconciliation.
func (s *Service) ApplyEffects(ctx context.Context, effects []reconcile.Effect) error {
	for _, e := range effects {
		switch e := e.(type) {
		case reconcile.EffectPersist:
			if err := s.registry.Save(ctx, e.Devices); err != nil {
				return fmt.Errorf("failed to persist decisions: %w", err)
			}
		case reconcile.EffectRefresh:
			// The write already invalidated the cache; a failed reload is retried on next use.
			if err := s.registry.Refresh(ctx); err != nil {
				s.logger.Warn("Failed to refresh registry", zap.Error(err))
			}
		}
	}
	return nil
}

// Report renders the run's vulnerable parts report as xlsx.
func (s *Service) Report(id string) ([]byte, error) {
	run, err := s.runs.Get(id)
	if err != nil {
		return nil, err
	}
	table, err := report.Vulnerable(s.cfg.ReportTitle, s.registry.Scheme(), run.State.Vulnerable.Entries())
	if err != nil {
		return nil, err
	}
	return sheet.Write(table)
}

// Publish uploads a rendered workbook under the configured report prefix and
// returns its object name.
func (s *Service) Publish(ctx context.Context, name string, data []byte) (string, error) {
	if s.client == nil {
		return "", ErrStorageDisabled
	}
	object := path.Join(s.storage.ReportPrefix, name)
	if err := storage.Upload(ctx, s.client, s.storage.Bucket, object, data, storage.XLSXContentType); err != nil {
		return "", err
	}
	s.logger.Info("Report published", zap.String("bucket", s.storage.Bucket), zap.String("object", object))
	return object, nil
}

// Discard drops a run.
func (s *Service) Discard(id string) error {
	return s.runs.Delete(id)
}
