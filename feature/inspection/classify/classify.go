package classify

import (
	"cmp"
	"context"
	"fmt"

	"spare-manager/core/registry"
	"spare-manager/feature/inspection/extract"
	"spare-manager/feature/inspection/models"

	"go.uber.org/zap"
)

// Kind is the classification of one row.
type Kind int

const (
	KindUnknown Kind = iota
	KindMatchedWhite
	KindMatchedBlack
)

func (k Kind) String() string {
	switch k {
	case KindMatchedWhite:
		return "matched-white"
	case KindMatchedBlack:
		return "matched-black"
	default:
		return "unknown"
	}
}

// Outcome is the result of classifying one row. Entry is set for
// KindMatchedWhite, Candidate for KindUnknown.
type Outcome struct {
	Kind      Kind
	Entry     models.Entry
	Candidate models.Candidate
}

// Row classifies one extracted row of a file whose inferred model is model.
func Row(row models.RawRow, model string, scheme registry.KeyScheme, match *registry.MatchResult) Outcome {
	if d, ok := lookup(row.ErpCode, model, scheme, match); ok {
		switch d.Status {
		case registry.StatusBlacklisted:
			return Outcome{Kind: KindMatchedBlack}
		case registry.StatusWhitelisted:
			return Outcome{
				Kind: KindMatchedWhite,
				Entry: models.Entry{
					ErpCode:     row.ErpCode,
					Description: cmp.Or(d.Description, row.Description),
					SpareCount:  d.SpareCount,
					Unit:        d.Unit,
					Model:       model,
					Remark:      d.Remark,
				},
			}
		default:
			// Unexpected status: re-queue with what the registry already knows.
			return Outcome{
				Kind: KindUnknown,
				Candidate: models.Candidate{
					ErpCode:      row.ErpCode,
					Model:        model,
					Description:  cmp.Or(d.Description, row.Description),
					Unit:         cmp.Or(d.Unit, row.Unit),
					SpareCount:   d.SpareCount,
					Remark:       d.Remark,
					IsVulnerable: true,
				},
			}
		}
	}

	// Tracked under another model: known, not relevant to this one.
	if scheme.Composite() && len(match.ByMaterial[row.ErpCode]) > 0 {
		return Outcome{Kind: KindMatchedBlack}
	}

	return Outcome{
		Kind:      KindUnknown,
		Candidate: models.NewCandidate(row.ErpCode, model, row.Description, row.Unit),
	}
}

// lookup resolves the registry record for a row. Under the composite scheme a
// record without a model applies to every model and is used when the exact
// key is absent.
func lookup(erp, model string, scheme registry.KeyScheme, match *registry.MatchResult) (registry.Device, bool) {
	if d, ok := match.Matched[scheme.KeyOf(erp, model)]; ok {
		return d, true
	}
	if !scheme.Composite() {
		return registry.Device{}, false
	}
	for _, d := range match.ByMaterial[erp] {
		if d.Model == "" {
			return d, true
		}
	}
	return registry.Device{}, false
}

// Matcher resolves registry lookups.
type Matcher interface {
	Match(ctx context.Context, pairs []registry.Pair) (*registry.MatchResult, error)
}

// Engine classifies whole files against the registry.
type Engine struct {
	matcher Matcher
	scheme  registry.KeyScheme
	logger  *zap.Logger
}

// NewEngine creates an engine.
func NewEngine(matcher Matcher, scheme registry.KeyScheme, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{matcher: matcher, scheme: scheme, logger: logger}
}

// ClassifyFile matches every row of a scanned file with a single matcher
// call and classifies each row.
func (e *Engine) ClassifyFile(ctx context.Context, res extract.Result) (*models.FileResult, error) {
	out := models.NewFileResult(res.File, res.Model, e.scheme.KeyOf)
	out.TotalRows = res.Seen()

	var pairs []registry.Pair
	for row := range res.Rows() {
		pairs = append(pairs, registry.Pair{MaterialID: row.ErpCode, Model: res.Model})
	}
	out.ExtractedRows = len(pairs)
	if len(pairs) == 0 {
		return out, nil
	}

	match, err := e.matcher.Match(ctx, pairs)
	if err != nil {
		return nil, fmt.Errorf("failed to classify %s: %w", res.File, err)
	}

	for row := range res.Rows() {
		o := Row(row, res.Model, e.scheme, match)
		switch o.Kind {
		case KindMatchedWhite:
			out.MatchedWhite++
			out.Vulnerable.Add(o.Entry)
		case KindMatchedBlack:
			out.MatchedBlack++
		default:
			out.Unmatched++
			out.Unknown.Add(o.Candidate)
		}
	}

	e.logger.Debug("File classified",
		zap.String("file", res.File),
		zap.String("model", res.Model),
		zap.Int("rows", out.ExtractedRows),
		zap.Int("matched_white", out.MatchedWhite),
		zap.Int("matched_black", out.MatchedBlack),
		zap.Int("unmatched", out.Unmatched),
	)
	return out, nil
}
