package ui

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// StyledRenderer prints the same lines as PlainRenderer, colored with the
// lipgloss palette. It is used on interactive terminals.
type StyledRenderer struct {
	mu     sync.Mutex
	out    io.Writer
	quiet  bool
	styles Styles
}

// NewStyledRenderer creates a colored line renderer.
func NewStyledRenderer(cfg Config) *StyledRenderer {
	return &StyledRenderer{
		out:    cfg.Output,
		quiet:  cfg.Quiet,
		styles: GetStyles(cfg.NoColor),
	}
}

// Start implements Renderer.
func (r *StyledRenderer) Start(ctx context.Context) error {
	return nil
}

// UpdateProgress implements Renderer.
func (r *StyledRenderer) UpdateProgress(event ProgressEvent) {
	if r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := event.Message
	if msg == "" {
		msg = event.CurrentFile
	}
	tag := r.styles.Stage.Render(fmt.Sprintf("%-7s", event.Stage.Icon()))
	switch {
	case event.Total > 0:
		count := r.styles.Progress.Render(fmt.Sprintf("%d/%d", event.Current, event.Total))
		_, _ = fmt.Fprintf(r.out, "%s %s %s\n", tag, count, r.styles.Dim.Render(msg))
	case msg != "":
		_, _ = fmt.Fprintf(r.out, "%s %s\n", tag, msg)
	}
}

// AddError implements Renderer.
func (r *StyledRenderer) AddError(event ErrorEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	style := r.styles.Error
	if event.IsWarn {
		style = r.styles.Warning
	}
	_, _ = fmt.Fprintln(r.out, style.Render(formatError(event)))
}

// Complete implements Renderer.
func (r *StyledRenderer) Complete(stats CompletionStats) {
	if r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintln(r.out, r.styles.Success.Render(summaryLine(stats)))
}

// Stop implements Renderer.
func (r *StyledRenderer) Stop() error {
	return nil
}
