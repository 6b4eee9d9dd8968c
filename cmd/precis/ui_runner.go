package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"precis/internal/selfcheck"
	"precis/internal/ui"
)

type checkOutcome struct {
	report *selfcheck.Report
	err    error
}

// runCheckWithUI runs the harness in the background and renders its
// progress until the progress channel closes.
func runCheckWithUI(ctx context.Context, title string, opts selfcheck.Options) (*selfcheck.Report, error) {
	tasks, err := selfcheck.Tasks(opts)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan selfcheck.Progress, 256)
	opts.Progress = events
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		rep, err := selfcheck.Run(ctx, opts)
		outcomeCh <- checkOutcome{report: rep, err: err}
	}()

	model := ui.NewProgressModel(title, tasks, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	final, uiErr := program.Run()
	if m, ok := final.(interface{ Interrupted() bool }); uiErr != nil || (ok && m.Interrupted()) {
		cancel()
	}
	// the model may have quit early; keep the harness from blocking on it
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
