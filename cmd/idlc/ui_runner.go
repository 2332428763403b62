package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"idlc/internal/driver"
	"idlc/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode, w io.Writer) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

type compileOutcome struct {
	state *driver.State
	err   error
}

// compileWithUI runs the driver in the background and renders its progress
// events on w until the compilation finishes.
func compileWithUI(ctx context.Context, w io.Writer, title string, opts driver.Options) (*driver.State, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan compileOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		st, err := driver.Compile(ctx, opts)
		outcomeCh <- compileOutcome{state: st, err: err}
		close(events)
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, events), tea.WithOutput(w), tea.WithInput(nil))
	_, uiErr := program.Run()
	if uiErr != nil {
		// модель больше не читает канал; дочитываем, чтобы драйвер не встал
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.state, uiErr
	}
	return outcome.state, outcome.err
}
