package reconcile_test

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"inventory-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePrompt() reconcile.Prompt {
	return reconcile.Prompt{
		Model: "C9120",
		Field: reconcile.FieldDisplayName,
		Candidates: []reconcile.Scored{
			{Candidate: reconcile.Candidate{ID: "10", DisplayName: "Catalyst 9120AXI"}, Score: 80},
			{Candidate: reconcile.Candidate{ID: "11", DisplayName: "AIR-AP9130AXI-B"}, Score: 60},
		},
	}
}

func TestConsolePrompt_RecoversFromInvalidInput(t *testing.T) {
	var out bytes.Buffer
	p := reconcile.NewConsolePrompt(strings.NewReader("abc\n7\n0\n2\n"), &out)

	d, err := p.Decide(context.Background(), samplePrompt())
	require.NoError(t, err)
	assert.Equal(t, reconcile.Choose(1), d)

	text := out.String()
	assert.Contains(t, text, "Catalyst 9120AXI")
	assert.Contains(t, text, "Create a new device type")
	assert.Equal(t, 3, strings.Count(text, "That wasn't an option, try again."))
	assert.Equal(t, 4, strings.Count(text, "What is your selection number? "))
}

func TestConsolePrompt_NumbersFromOne(t *testing.T) {
	var out bytes.Buffer
	p := reconcile.NewConsolePrompt(strings.NewReader("1\n"), &out)

	d, err := p.Decide(context.Background(), samplePrompt())
	require.NoError(t, err)
	assert.Equal(t, reconcile.Choose(0), d)

	lines := strings.Split(out.String(), "\n")
	var first string
	for _, l := range lines {
		if strings.Contains(l, "Catalyst 9120AXI") {
			first = l
		}
	}
	assert.Equal(t, "1", strings.Fields(first)[0])
}

func TestConsolePrompt_DuplicateNamesShowIDs(t *testing.T) {
	var out bytes.Buffer
	p := reconcile.NewConsolePrompt(strings.NewReader("2\n"), &out)

	pr := reconcile.Prompt{
		Model: "9120",
		Field: reconcile.FieldDisplayName,
		Candidates: []reconcile.Scored{
			{Candidate: reconcile.Candidate{ID: "101", DisplayName: "Catalyst 9120AXI"}, Score: 50},
			{Candidate: reconcile.Candidate{ID: "202", DisplayName: "Catalyst 9120AXI"}, Score: 50},
		},
	}
	d, err := p.Decide(context.Background(), pr)
	require.NoError(t, err)
	assert.Equal(t, reconcile.Choose(1), d)

	text := out.String()
	assert.Contains(t, text, "[id 101]")
	assert.Contains(t, text, "[id 202]")
}

func TestConsolePrompt_CreateNew(t *testing.T) {
	p := reconcile.NewConsolePrompt(strings.NewReader(" 99 \n"), io.Discard)

	d, err := p.Decide(context.Background(), samplePrompt())
	require.NoError(t, err)
	assert.True(t, d.CreateNew)
}

func TestConsolePrompt_Broader(t *testing.T) {
	t.Run("Offered", func(t *testing.T) {
		var out bytes.Buffer
		p := reconcile.NewConsolePrompt(strings.NewReader("B\n"), &out)

		pr := samplePrompt()
		pr.Broader = "9120"
		d, err := p.Decide(context.Background(), pr)
		require.NoError(t, err)
		assert.True(t, d.Broaden)
		assert.Contains(t, out.String(), `Try a broader search against "9120"`)
	})

	t.Run("NotOffered", func(t *testing.T) {
		var out bytes.Buffer
		p := reconcile.NewConsolePrompt(strings.NewReader("b\n1\n"), &out)

		d, err := p.Decide(context.Background(), samplePrompt())
		require.NoError(t, err)
		assert.Equal(t, reconcile.Choose(0), d)
		assert.NotContains(t, out.String(), "broader search")
		assert.Equal(t, 1, strings.Count(out.String(), "That wasn't an option, try again."))
	})
}

func TestConsolePrompt_SequentialQuestions(t *testing.T) {
	p := reconcile.NewConsolePrompt(strings.NewReader("1\n2"), io.Discard)

	d, err := p.Decide(context.Background(), samplePrompt())
	require.NoError(t, err)
	assert.Equal(t, 0, d.Index)

	d, err = p.Decide(context.Background(), samplePrompt())
	require.NoError(t, err)
	assert.Equal(t, 1, d.Index)
}

func TestConsolePrompt_LeavesLaterInputUnread(t *testing.T) {
	reader, writer := io.Pipe()
	defer reader.Close()

	go func() {
		_, _ = writer.Write([]byte("1\n"))
		_, _ = writer.Write([]byte("y\n"))
		writer.Close()
	}()

	p := reconcile.NewConsolePrompt(reader, io.Discard)
	d, err := p.Decide(context.Background(), samplePrompt())
	require.NoError(t, err)
	assert.Equal(t, reconcile.Choose(0), d)

	line, err := bufio.NewReader(reader).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "y\n", line)
}

func TestConsolePrompt_EOF(t *testing.T) {
	p := reconcile.NewConsolePrompt(strings.NewReader("nope\n"), io.Discard)

	_, err := p.Decide(context.Background(), samplePrompt())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestConsolePrompt_Cancelled(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()

	p := reconcile.NewConsolePrompt(reader, io.Discard)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Decide(ctx, samplePrompt())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConsolePrompt_AnswerAfterCancelIsKept(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()

	p := reconcile.NewConsolePrompt(reader, io.Discard)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Decide(ctx, samplePrompt())
	require.ErrorIs(t, err, context.DeadlineExceeded)

	go func() { _, _ = writer.Write([]byte("2\n")) }()

	d, err := p.Decide(context.Background(), samplePrompt())
	require.NoError(t, err)
	assert.Equal(t, reconcile.Choose(1), d)
}
