package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"kilc/internal/driver"
	"kilc/internal/ui"
)

type compileOutcome struct {
	result *driver.Result
	err    error
}

func runCompileWithUI(ctx context.Context, title string, req driver.Request) (*driver.Result, error) {
	return compileWithEvents(ctx, req, 256, func(events <-chan driver.Event) error {
		model := ui.NewProgressModel(title, events)
		_, err := tea.NewProgram(model, tea.WithOutput(os.Stdout)).Run()
		return err
	})
}

// compileWithEvents runs the compile in the background while consume reads its
// progress events. consume may return early; the rest of the events are drained
// so the compile never blocks on a full channel.
func compileWithEvents(ctx context.Context, req driver.Request, buffer int, consume func(<-chan driver.Event) error) (*driver.Result, error) {
	events := make(chan driver.Event, buffer)
	outcomeCh := make(chan compileOutcome, 1)

	go func() {
		req.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Compile(ctx, req)
		outcomeCh <- compileOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := consume(events)
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
