// Package advisor asks a generative model for emission reduction tips based
// on a user's recent daily totals.
package advisor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/doodlesbykumbi/footprint/pkg/history"
	"github.com/doodlesbykumbi/footprint/pkg/model"
)

// RecentEntries is how many entries are summarized in the prompt.
const RecentEntries = 7

var (
	// ErrNotConfigured is returned when no generator is available.
	ErrNotConfigured = errors.New("AI advisor not configured")

	// ErrNoEntries is returned when the user has nothing to summarize.
	ErrNoEntries = errors.New("no entries to summarize")
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Tips is a generated answer in markdown and rendered HTML.
type Tips struct {
	Model    string `json:"model"`
	Prompt   string `json:"prompt"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// Advisor turns entries into a prompt and renders the answer.
type Advisor struct {
	gen Generator
	md  goldmark.Markdown
}

// New returns an Advisor. A nil generator yields ErrNotConfigured from Tips.
func New(gen Generator) *Advisor {
	return &Advisor{
		gen: gen,
		md:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Configured reports whether a generator is set.
func (a *Advisor) Configured() bool {
	return a != nil && a.gen != nil
}

// BuildPrompt summarizes the last RecentEntries entries by date.
func BuildPrompt(entries []model.Entry) string {
	recent := history.Recent(entries, RecentEntries)
	lines := make([]string, 0, len(recent))
	for _, e := range recent {
		lines = append(lines, fmt.Sprintf("%s: %.2f kg", e.Date, e.TotalEmission))
	}
	return "You are a sustainability assistant. Given recent daily CO₂ totals:\n" +
		strings.Join(lines, "\n") +
		"\nProvide 10 actionable tips for reducing emissions."
}

// Tips generates reduction tips for the given entries.
func (a *Advisor) Tips(ctx context.Context, entries []model.Entry) (*Tips, error) {
	if !a.Configured() {
		return nil, ErrNotConfigured
	}
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	prompt := BuildPrompt(entries)
	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("AI error: %w", err)
	}

	html, err := a.Render(text)
	if err != nil {
		return nil, err
	}

	return &Tips{
		Model:    a.gen.Model(),
		Prompt:   prompt,
		Markdown: text,
		HTML:     html,
	}, nil
}

// Render converts markdown to HTML.
func (a *Advisor) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := a.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}
