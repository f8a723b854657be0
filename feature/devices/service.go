package devices

import (
	"context"
	"fmt"

	"spare-manager/core/registry"
	"spare-manager/core/sheet"
	"spare-manager/feature/inspection/report"

	"go.uber.org/zap"
)

// MatchView is the answer to a batch lookup.
type MatchView struct {
	Matched   []registry.Device `json:"matched"`
	Unmatched []registry.Pair   `json:"unmatched"`
}

// Service handles device registry maintenance.
type Service struct {
	registry *registry.Registry
	logger   *zap.Logger
}

// NewService creates a new devices service.
func NewService(reg *registry.Registry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{registry: reg, logger: logger}
}

// List returns every device.
func (s *Service) List(ctx context.Context) ([]registry.Device, error) {
	return s.registry.List(ctx)
}

// Replace stores the full device list.
func (s *Service) Replace(ctx context.Context, devices []registry.Device) error {
	return s.registry.Replace(ctx, devices)
}

// Delete removes every record of materialID.
func (s *Service) Delete(ctx context.Context, materialID string) error {
	return s.registry.Delete(ctx, materialID)
}

// DeleteMany removes every record of the given ids.
func (s *Service) DeleteMany(ctx context.Context, materialIDs []string) (int64, error) {
	return s.registry.DeleteMany(ctx, materialIDs)
}

// Match looks pairs up in the registry.
func (s *Service) Match(ctx context.Context, pairs []registry.Pair) (MatchView, error) {
	res, err := s.registry.Match(ctx, pairs)
	if err != nil {
		return MatchView{}, err
	}
	view := MatchView{Matched: res.Devices(), Unmatched: res.Unmatched}
	if view.Unmatched == nil {
		view.Unmatched = []registry.Pair{}
	}
	return view, nil
}

// Toggle flips a device between whitelisted and blacklisted.
func (s *Service) Toggle(ctx context.Context, materialID, model string) (registry.Device, error) {
	return s.registry.Toggle(ctx, materialID, model)
}

// ImportWhitelist adds the devices of a whitelist sheet. Rows whose identity
// already exists, in the registry or earlier in the sheet, are skipped.
func (s *Service) ImportWhitelist(ctx context.Context, sh sheet.Sheet) (ImportResult, error) {
	p, err := parseWhitelist(sh)
	if err != nil {
		return ImportResult{}, err
	}
	return s.importParsed(ctx, "whitelist", p)
}

// ImportBlacklist adds the ids of a headerless blacklist sheet.
func (s *Service) ImportBlacklist(ctx context.Context, sh sheet.Sheet) (ImportResult, error) {
	return s.importParsed(ctx, "blacklist", parseBlacklist(sh))
}

func (s *Service) importParsed(ctx context.Context, kind string, p parsed) (ImportResult, error) {
	existing, err := s.registry.Cache().GetAll(ctx)
	if err != nil {
		return ImportResult{}, err
	}

	scheme := s.registry.Scheme()
	result := ImportResult{Invalid: p.invalid}
	if result.Invalid == nil {
		result.Invalid = []RowIssue{}
	}

	var fresh []registry.Device
	for _, d := range p.devices {
		key := scheme.DeviceKey(d)
		if _, ok := existing[key]; ok {
			result.Existing++
			continue
		}
		existing[key] = d
		fresh = append(fresh, d)
	}

	if err := s.registry.Save(ctx, fresh); err != nil {
		return ImportResult{}, fmt.Errorf("failed to import %s: %w", kind, err)
	}
	result.Imported = len(fresh)

	s.logger.Info("Devices imported",
		zap.String("kind", kind),
		zap.Int("imported", result.Imported),
		zap.Int("existing", result.Existing),
		zap.Int("invalid", len(result.Invalid)),
	)
	return result, nil
}

// ExportBlacklist renders the blacklisted ids as an importable workbook.
func (s *Service) ExportBlacklist(ctx context.Context) ([]byte, error) {
	devices, err := s.registry.ListByStatus(ctx, registry.StatusBlacklisted)
	if err != nil {
		return nil, err
	}
	return sheet.Write(report.Blacklist(devices))
}

// ExportLibrary renders the whitelisted devices of one model. An empty model
// exports every model, one worksheet each.
func (s *Service) ExportLibrary(ctx context.Context, model string) ([]byte, error) {
	devices, err := s.registry.ListByStatus(ctx, registry.StatusWhitelisted)
	if err != nil {
		return nil, err
	}
	if model == "" {
		return sheet.Write(report.Library(devices)...)
	}
	model = registry.CanonicalModel(model)
	if !registry.IsModel(model) {
		return nil, fmt.Errorf("%w: unknown model %q", registry.ErrInvalidDevice, model)
	}
	return sheet.Write(report.LibraryFor(model, devices))
}
