package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"github.com/xvierd/tempo/internal/services"
	"github.com/xvierd/tempo/internal/timer"
)

// ControllerFactory builds a controller that delivers its timer callbacks
// through dispatch.
type ControllerFactory func(dispatch timer.Dispatcher) *services.Controller

// Run hosts a controller in a fullscreen program and blocks until the user
// quits or ctx is cancelled. The program goroutine is the controller's owner.
func Run(ctx context.Context, newController ControllerFactory) error {
	var program *tea.Program
	dispatch := func(fn func()) {
		program.Send(dispatchMsg(fn))
	}

	ctrl := newController(dispatch)
	defer ctrl.Close()
	ctrl.Initialize(ctx)

	model := NewModel(ctx, ctrl, terminalWidth())
	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))

	_, err := program.Run()
	closeOpenSession(ctrl)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// closeOpenSession closes a countdown left running or paused when the
// program exits. The program goroutine has stopped, so this goroutine owns
// the controller again.
func closeOpenSession(ctrl *services.Controller) {
	if ctrl.State() != services.StateIdle {
		ctrl.StartNewSession(context.Background())
	}
}

func terminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil {
		return 80
	}
	return w
}
