package reconcile_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"inventory-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_RoundTrip(t *testing.T) {
	prompts := []reconcile.Prompt{
		samplePrompt(),
		{Model: "1234", Field: reconcile.FieldPartNumber},
	}

	var buf bytes.Buffer
	require.NoError(t, reconcile.WriteTemplate(&buf, prompts))

	text := buf.String()
	assert.Contains(t, text, "# 10: Catalyst 9120AXI (80)")
	assert.Contains(t, text, "C9120: CHANGE_ME")
	assert.Contains(t, text, `"1234": CHANGE_ME`)

	values, err := reconcile.ParseTemplate(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"C9120": "CHANGE_ME", "1234": "CHANGE_ME"}, values)
}

func TestTemplateDecider(t *testing.T) {
	ctx := context.Background()
	edited := `
C9120: 11
CW9166I: create
WS-C2960: CHANGE_ME
ISR4331: "42"
`
	values, err := reconcile.ParseTemplate(strings.NewReader(edited))
	require.NoError(t, err)

	decider := &reconcile.TemplateDecider{Values: values}

	d, err := decider.Decide(ctx, samplePrompt())
	require.NoError(t, err)
	assert.Equal(t, reconcile.Choose(1), d)

	d, err = decider.Decide(ctx, reconcile.Prompt{Model: "CW9166I"})
	require.NoError(t, err)
	assert.True(t, d.CreateNew)

	_, err = decider.Decide(ctx, reconcile.Prompt{Model: "WS-C2960"})
	assert.ErrorIs(t, err, reconcile.ErrDecisionRequired)

	_, err = decider.Decide(ctx, reconcile.Prompt{Model: "ISR4331", Candidates: samplePrompt().Candidates})
	assert.ErrorIs(t, err, reconcile.ErrInvalidDecision)

	_, err = decider.Decide(ctx, reconcile.Prompt{Model: "absent"})
	assert.ErrorIs(t, err, reconcile.ErrDecisionRequired)

	fallback := &reconcile.TemplateDecider{Values: values, Fallback: &reconcile.ScriptedDecider{Default: &reconcile.Decision{Index: 0}}}
	d, err = fallback.Decide(ctx, reconcile.Prompt{Model: "absent"})
	require.NoError(t, err)
	assert.Equal(t, 0, d.Index)
}
