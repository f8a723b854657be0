package cmd

import (
	"bytes"
	"strings"
	"testing"

	"spare-manager/core/registry"
	"spare-manager/feature/inspection/models"
	"spare-manager/feature/inspection/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Decide(t *testing.T) {
	c := models.NewCandidate("M2", registry.ModelSystem, "Valve", "pcs")

	t.Run("Vulnerable with defaults", func(t *testing.T) {
		out := &bytes.Buffer{}
		p := newPrompter(strings.NewReader("是\n\n3\n\nspare\n系统，砖机\n"), out)

		d, err := p.decide(c, 1, 2, true)
		require.NoError(t, err)
		assert.Equal(t, reconcile.Decision{
			Description:  "Valve",
			SpareCount:   3,
			Unit:         "pcs",
			Remark:       "spare",
			IsVulnerable: true,
			Models:       []string{"系统", "砖机"},
		}, d)
		assert.Contains(t, out.String(), "[1/2] M2  Valve  (System)")
	})

	t.Run("Not vulnerable", func(t *testing.T) {
		p := newPrompter(strings.NewReader("\n"), &bytes.Buffer{})

		d, err := p.decide(c, 1, 1, true)
		require.NoError(t, err)
		assert.False(t, d.IsVulnerable)
	})

	t.Run("Single scheme skips model selection", func(t *testing.T) {
		p := newPrompter(strings.NewReader("y\nPump\n2\nbox\n\n"), &bytes.Buffer{})

		d, err := p.decide(c, 1, 1, false)
		require.NoError(t, err)
		assert.Equal(t, "Pump", d.Description)
		assert.Equal(t, "box", d.Unit)
		assert.Nil(t, d.Models)
	})

	t.Run("Closed input", func(t *testing.T) {
		p := newPrompter(strings.NewReader("y\n"), &bytes.Buffer{})

		_, err := p.decide(c, 1, 1, true)
		assert.Error(t, err)
	})
}

func TestPrompter_AskLastLineWithoutNewline(t *testing.T) {
	p := newPrompter(strings.NewReader("yes"), &bytes.Buffer{})

	answer, err := p.ask("Continue?", "n")
	require.NoError(t, err)
	assert.Equal(t, "yes", answer)
}
