package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BroaderKey is the menu answer that asks for a broader search.
const BroaderKey = "b"

// ConsolePrompt asks an operator to pick a candidate from a numbered menu.
// Menu numbers start at 1. Input is read one byte at a time so nothing past
// the answer is consumed and later prompts can share the same reader.
type ConsolePrompt struct {
	in  io.Reader
	out io.Writer

	header lipgloss.Style
	index  lipgloss.Style
	id     lipgloss.Style
	score  lipgloss.Style
	hint   lipgloss.Style

	// pending is the read left behind by a cancelled Decide.
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// NewConsolePrompt creates a prompt reading answers from in and writing the
// menu to out.
func NewConsolePrompt(in io.Reader, out io.Writer) *ConsolePrompt {
	r := lipgloss.NewRenderer(out)
	return &ConsolePrompt{
		in:     in,
		out:    out,
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		index:  r.NewStyle().Foreground(lipgloss.Color("10")).Width(5).Align(lipgloss.Right),
		id:     r.NewStyle().Foreground(lipgloss.Color("14")),
		score:  r.NewStyle().Faint(true),
		hint:   r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Decide implements DecisionProvider. It repeats the question until it gets a
// listed answer, returns ctx.Err() when ctx is cancelled and fails when the
// input ends.
func (p *ConsolePrompt) Decide(ctx context.Context, pr Prompt) (Decision, error) {
	p.render(pr)

	for {
		fmt.Fprint(p.out, "What is your selection number? ")

		line, err := p.readLine(ctx)
		if cerr := ctx.Err(); cerr != nil && errors.Is(err, cerr) {
			fmt.Fprintln(p.out)
			return Decision{}, err
		}
		if err != nil && line == "" {
			if err == io.EOF {
				return Decision{}, fmt.Errorf("input closed before a selection was made for %q: %w", pr.Model, io.ErrUnexpectedEOF)
			}
			return Decision{}, err
		}

		answer := strings.TrimSpace(line)
		if pr.Broader != "" && strings.EqualFold(answer, BroaderKey) {
			return Broaden(), nil
		}
		n, convErr := strconv.Atoi(answer)
		switch {
		case convErr != nil:
		case n == SentinelCreateNew:
			return CreateNew(), nil
		case n >= 1 && n <= len(pr.Candidates):
			return Choose(n - 1), nil
		}
		fmt.Fprintln(p.out, p.hint.Render("That wasn't an option, try again."))
	}
}

func (p *ConsolePrompt) render(pr Prompt) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.header.Render(fmt.Sprintf("Which device type matches %s?", pr.Model)))
	if pr.Query != "" {
		fmt.Fprintf(p.out, "Candidates for %q:\n", pr.Query)
	}
	for i, c := range pr.Candidates {
		fmt.Fprintf(p.out, "%s  %s %s %s\n",
			p.index.Render(strconv.Itoa(i+1)),
			c.Value(pr.Field),
			p.id.Render("[id "+c.ID+"]"),
			p.score.Render(fmt.Sprintf("(%d)", c.Score)))
	}
	if pr.Broader != "" {
		fmt.Fprintf(p.out, "%s  Try a broader search against %q\n", p.index.Render(BroaderKey), pr.Broader)
	}
	fmt.Fprintf(p.out, "%s  Create a new device type named %q\n", p.index.Render(strconv.Itoa(SentinelCreateNew)), pr.Model)
}

// readLine returns the next line, or ctx.Err() when ctx ends first. A read
// interrupted by ctx is kept and its line is returned by the next call.
func (p *ConsolePrompt) readLine(ctx context.Context) (string, error) {
	res := p.pending
	if res == nil {
		res = make(chan lineResult, 1)
		go func() {
			line, err := readLine(p.in)
			res <- lineResult{line: line, err: err}
		}()
	}

	select {
	case <-ctx.Done():
		p.pending = res
		return "", ctx.Err()
	case r := <-res:
		p.pending = nil
		return r.line, r.err
	}
}

// readLine reads up to and including the next newline without buffering
// anything beyond it.
func readLine(r io.Reader) (string, error) {
	var (
		sb  strings.Builder
		buf [1]byte
	)
	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			sb.WriteByte(buf[0])
			if buf[0] == '\n' {
				return sb.String(), nil
			}
		}
		if err != nil {
			return sb.String(), err
		}
	}
}
