package reconcile

import (
	"cmp"
	"errors"
	"fmt"
	"strings"

	"spare-manager/core/registry"
	"spare-manager/feature/inspection/models"
)

// ErrDecisionCount is returned when decisions and candidates differ in length.
var ErrDecisionCount = errors.New("decision count does not match pending candidates")

// ValidationError names the candidate row (1-based) and field that failed.
type ValidationError struct {
	Row     int
	ErpCode string
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("row %d (%s): %s %s", e.Row, e.ErpCode, e.Field, e.Reason)
}

// State is the reconciliation state of one run.
type State struct {
	// Candidates are the unknown devices still waiting for a decision.
	Candidates []models.Candidate
	// Vulnerable is the report being built.
	Vulnerable *models.VulnerableList
	// Confirmed is set once the candidates have been resolved.
	Confirmed bool
}

// Decision is the operator's answer for one candidate.
type Decision struct {
	Description  string   `json:"description"`
	SpareCount   int      `json:"spareCount"`
	Unit         string   `json:"unit"`
	Remark       string   `json:"remark"`
	IsVulnerable bool     `json:"isVulnerable"`
	Models       []string `json:"models"`
}

// Effect is a side effect requested by a transition.
type Effect interface {
	effect()
}

// EffectPersist asks for devices to be upserted into the registry.
type EffectPersist struct {
	Devices []registry.Device
}

// EffectRefresh asks for the registry view to be reloaded.
type EffectRefresh struct{}

func (EffectPersist) effect() {}
func (EffectRefresh) effect() {}

// Confirm resolves every pending candidate with the decision at the same
// position. All decisions are validated before anything is produced, so a
// failure leaves nothing half applied. The input state is not modified.
func Confirm(state State, scheme registry.KeyScheme, decisions []Decision) (State, []Effect, error) {
	if len(decisions) != len(state.Candidates) {
		return state, nil, fmt.Errorf("%w: got %d, want %d", ErrDecisionCount, len(decisions), len(state.Candidates))
	}

	resolved := make([]resolution, len(decisions))
	for i, d := range decisions {
		r, err := resolve(i+1, state.Candidates[i], scheme, d)
		if err != nil {
			return state, nil, err
		}
		resolved[i] = r
	}

	next := State{Confirmed: true}
	if state.Vulnerable != nil {
		next.Vulnerable = state.Vulnerable.Clone()
	} else {
		next.Vulnerable = models.NewVulnerableList(scheme.KeyOf)
	}

	var devices []registry.Device
	for _, r := range resolved {
		devices = append(devices, r.devices...)
		for _, e := range r.entries {
			next.Vulnerable.Add(e)
		}
	}
	if len(devices) == 0 {
		return next, nil, nil
	}
	return next, []Effect{EffectPersist{Devices: devices}, EffectRefresh{}}, nil
}

type resolution struct {
	devices []registry.Device
	entries []models.Entry
}

func resolve(row int, c models.Candidate, scheme registry.KeyScheme, d Decision) (resolution, error) {
	fail := func(field, reason string) error {
		return &ValidationError{Row: row, ErpCode: c.ErpCode, Field: field, Reason: reason}
	}

	desc := cmp.Or(strings.TrimSpace(d.Description), c.Description, c.ErpCode)
	unit := cmp.Or(strings.TrimSpace(d.Unit), c.Unit)
	remark := strings.TrimSpace(d.Remark)
	targets := selectedModels(c, d)

	if d.IsVulnerable {
		switch {
		case desc == "":
			return resolution{}, fail("description", "is required")
		case d.SpareCount <= 0:
			return resolution{}, fail("spareCount", "must be greater than zero")
		case unit == "":
			return resolution{}, fail("unit", "is required")
		}
		if scheme.Composite() {
			for _, m := range targets {
				if !registry.IsModel(m) {
					return resolution{}, fail("models", fmt.Sprintf("must name a known model, got %q", m))
				}
			}
		}
	}

	if !scheme.Composite() {
		// One record per material id; the selection only picks its model.
		targets = targets[:1]
	}

	var r resolution
	for _, m := range targets {
		dev := registry.Device{
			MaterialID:  c.ErpCode,
			Model:       m,
			Description: desc,
			SpareCount:  d.SpareCount,
			Unit:        unit,
			Remark:      remark,
			Status:      registry.StatusWhitelisted,
		}
		if !d.IsVulnerable {
			r.devices = append(r.devices, dev.Blacklisted())
			continue
		}
		r.devices = append(r.devices, dev)

		if !scheme.Composite() || m == c.Model {
			r.entries = append(r.entries, models.Entry{
				ErpCode:     c.ErpCode,
				Description: desc,
				SpareCount:  d.SpareCount,
				Unit:        unit,
				Model:       c.Model,
				Remark:      remark,
			})
		}
	}
	return r, nil
}

// selectedModels returns the distinct, canonical selected models, or the
// candidate's own model when nothing was selected.
func selectedModels(c models.Candidate, d Decision) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range d.Models {
		m = registry.CanonicalModel(m)
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	if len(out) == 0 {
		out = []string{c.Model}
	}
	return out
}
