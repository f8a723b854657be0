package reconcile

import (
	"errors"
	"testing"

	"spare-manager/core/registry"
	"spare-manager/feature/inspection/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateWith(scheme registry.KeyScheme, candidates ...models.Candidate) State {
	return State{Candidates: candidates, Vulnerable: models.NewVulnerableList(scheme.KeyOf)}
}

func TestConfirm_WhitelistsCandidate(t *testing.T) {
	scheme := registry.SchemeComposite
	state := stateWith(scheme, models.NewCandidate("M2", registry.ModelSystem, "Valve", ""))

	next, effects, err := Confirm(state, scheme, []Decision{{SpareCount: 3, Unit: "pcs", IsVulnerable: true}})
	require.NoError(t, err)

	assert.True(t, next.Confirmed)
	assert.Empty(t, next.Candidates)
	assert.Equal(t, []models.Entry{{ErpCode: "M2", Description: "Valve", SpareCount: 3, Unit: "pcs", Model: registry.ModelSystem}}, next.Vulnerable.Entries())
	require.Len(t, effects, 2)
	assert.Equal(t, EffectPersist{Devices: []registry.Device{{
		MaterialID: "M2", Model: registry.ModelSystem, Description: "Valve", SpareCount: 3, Unit: "pcs", Status: registry.StatusWhitelisted,
	}}}, effects[0])
	assert.Equal(t, EffectRefresh{}, effects[1])

	// Input state untouched.
	assert.Len(t, state.Candidates, 1)
	assert.Zero(t, state.Vulnerable.Len())
}

func TestConfirm_FanOutAcrossModels(t *testing.T) {
	scheme := registry.SchemeComposite
	state := stateWith(scheme, models.NewCandidate("M2", registry.ModelPress, "Valve", "pcs"))

	next, effects, err := Confirm(state, scheme, []Decision{{
		SpareCount: 2, IsVulnerable: true,
		Models: []string{registry.ModelSystem, "砖机", registry.ModelPress},
	}})
	require.NoError(t, err)

	persisted := effects[0].(EffectPersist).Devices
	require.Len(t, persisted, 2)
	assert.Equal(t, registry.ModelSystem, persisted[0].Model)
	assert.Equal(t, registry.ModelPress, persisted[1].Model)

	// Only the file's own model lands in the report.
	entries := next.Vulnerable.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, registry.ModelPress, entries[0].Model)
}

func TestConfirm_SelectionWithoutFileModel(t *testing.T) {
	scheme := registry.SchemeComposite
	state := stateWith(scheme, models.NewCandidate("M2", registry.ModelPress, "Valve", "pcs"))

	next, effects, err := Confirm(state, scheme, []Decision{{SpareCount: 2, IsVulnerable: true, Models: []string{registry.ModelShuttle}}})
	require.NoError(t, err)
	assert.Len(t, effects[0].(EffectPersist).Devices, 1)
	assert.Zero(t, next.Vulnerable.Len())
}

func TestConfirm_BlacklistZeroesSpareFields(t *testing.T) {
	scheme := registry.SchemeComposite
	state := stateWith(scheme, models.NewCandidate("M5", "", "Label", ""))

	next, effects, err := Confirm(state, scheme, []Decision{{SpareCount: 7, Unit: "pcs", Remark: "typed", IsVulnerable: false}})
	require.NoError(t, err)

	assert.Zero(t, next.Vulnerable.Len())
	assert.Equal(t, []registry.Device{{MaterialID: "M5", Description: "Label", Status: registry.StatusBlacklisted}}, effects[0].(EffectPersist).Devices)
}

func TestConfirm_SingleScheme(t *testing.T) {
	scheme := registry.SchemeSingle
	state := stateWith(scheme, models.NewCandidate("M6", "", "Fuse", "pcs"))

	next, effects, err := Confirm(state, scheme, []Decision{{SpareCount: 1, IsVulnerable: true, Models: []string{"anything", "else"}}})
	require.NoError(t, err)

	devices := effects[0].(EffectPersist).Devices
	require.Len(t, devices, 1)
	assert.Equal(t, "anything", devices[0].Model)
	assert.Equal(t, 1, next.Vulnerable.Len())
}

func TestConfirm_Validation(t *testing.T) {
	scheme := registry.SchemeComposite
	candidates := []models.Candidate{
		models.NewCandidate("A", registry.ModelSystem, "ok", "pcs"),
		models.NewCandidate("B", "", "no model", "pcs"),
	}

	tests := []struct {
		name   string
		second Decision
		field  string
	}{
		{"ZeroSpare", Decision{IsVulnerable: true}, "spareCount"},
		{"MissingModel", Decision{IsVulnerable: true, SpareCount: 1}, "models"},
		{"UnknownModel", Decision{IsVulnerable: true, SpareCount: 1, Models: []string{"Crane"}}, "models"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := stateWith(scheme, candidates...)
			_, effects, err := Confirm(state, scheme, []Decision{{IsVulnerable: true, SpareCount: 1}, tt.second})

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, 2, verr.Row)
			assert.Equal(t, "B", verr.ErpCode)
			assert.Equal(t, tt.field, verr.Field)
			assert.Nil(t, effects)
		})
	}
}

func TestConfirm_MissingUnit(t *testing.T) {
	state := stateWith(registry.SchemeSingle, models.NewCandidate("C", "", "Cable", ""))

	_, _, err := Confirm(state, registry.SchemeSingle, []Decision{{IsVulnerable: true, SpareCount: 2}})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unit", verr.Field)
	assert.Equal(t, 1, verr.Row)
	assert.Contains(t, err.Error(), "row 1 (C)")
}

func TestConfirm_DecisionCount(t *testing.T) {
	state := stateWith(registry.SchemeComposite, models.NewCandidate("A", "", "x", ""))

	_, _, err := Confirm(state, registry.SchemeComposite, nil)
	assert.ErrorIs(t, err, ErrDecisionCount)
}

func TestConfirm_NothingPending(t *testing.T) {
	state := stateWith(registry.SchemeComposite)

	next, effects, err := Confirm(state, registry.SchemeComposite, nil)
	require.NoError(t, err)
	assert.True(t, next.Confirmed)
	assert.Empty(t, effects)
}

func TestConfirm_KeepsExistingReportDeduplicated(t *testing.T) {
	scheme := registry.SchemeComposite
	state := stateWith(scheme, models.NewCandidate("M1", registry.ModelSystem, "Pump", "pcs"))
	state.Vulnerable.Add(models.Entry{ErpCode: "M1", Model: registry.ModelSystem, SpareCount: 1})

	next, _, err := Confirm(state, scheme, []Decision{{SpareCount: 4, IsVulnerable: true}})
	require.NoError(t, err)

	entries := next.Vulnerable.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 4, entries[0].SpareCount)
}
