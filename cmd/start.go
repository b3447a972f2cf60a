package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/tempo/internal/domain"
	"github.com/xvierd/tempo/internal/event"
	"github.com/xvierd/tempo/internal/services"
	"github.com/xvierd/tempo/internal/timer"
)

var (
	startMode     string
	startTag      string
	startTemplate string
	startTasks    []string
	startForce    bool
)

// startCmd runs a single countdown without the interactive timer.
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run one countdown in the terminal without the interactive timer",
	Long: `Run a single focus session or break and print progress until it completes.
The session is recorded in history like one started from the interactive timer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := domain.ParseMode(startMode)
		if err != nil {
			return err
		}
		ctx, stop := setupSignalHandler()
		defer stop()
		return runHeadless(ctx, cmd.OutOrStdout(), headlessOptions{
			mode:     mode,
			tag:      startTag,
			template: startTemplate,
			tasks:    startTasks,
			force:    startForce,
		})
	},
}

func init() {
	startCmd.Flags().StringVarP(&startMode, "mode", "m", string(domain.ModeFocus), "Countdown mode: focus, short_break or long_break")
	startCmd.Flags().StringVarP(&startTag, "tag", "t", "", "Tag for the session")
	startCmd.Flags().StringVar(&startTemplate, "template", "", "Apply a template before starting")
	startCmd.Flags().StringArrayVar(&startTasks, "task", nil, "Task to attach to the session (repeatable)")
	startCmd.Flags().BoolVarP(&startForce, "force", "f", false, "Start even when the streak warning is shown")
	rootCmd.AddCommand(startCmd)
}

type headlessOptions struct {
	mode     domain.Mode
	tag      string
	template string
	tasks    []string
	force    bool
}

var (
	errQuotaReached  = errors.New("daily focus quota reached")
	errStreakWarning = errors.New("streak warning: complete a focus session today or pass --force")
)

// runHeadless hosts a controller on a timer.Loop and blocks until the
// countdown completes and its alarm has rung, or ctx is cancelled.
func runHeadless(ctx context.Context, out io.Writer, opts headlessOptions) error {
	loop := timer.NewLoop(0)
	ctrl := newController(loop.Dispatcher())
	defer ctrl.Close()
	ctrl.Initialize(ctx)

	if opts.template != "" && !ctrl.ApplyTemplate(ctx, opts.template) {
		return fmt.Errorf("unknown template %q", opts.template)
	}
	if opts.mode != ctrl.Mode() {
		ctrl.SetMode(ctx, opts.mode)
	}
	for _, text := range opts.tasks {
		ctrl.AddTask(ctx, text)
	}

	if ctrl.StreakWarning() {
		if !opts.force {
			return errStreakWarning
		}
		ctrl.AcknowledgeStreakWarning()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	tickID := app.bus.Subscribe(event.TypeTick, func(e event.Event) {
		tick, ok := e.(event.TickEvent)
		if ok && tick.Remaining > 0 && tick.Remaining%60 == 0 {
			fmt.Fprintf(out, "  %s remaining\n", formatCountdown(tick.Remaining))
		}
	})
	defer app.bus.Unsubscribe(tickID)

	warnID := app.bus.Subscribe(event.TypeOneMinuteWarning, func(e event.Event) {
		fmt.Fprintln(out, "  One minute left")
	})
	defer app.bus.Unsubscribe(warnID)

	doneID := app.bus.Subscribe(event.TypeTimerCompleted, func(e event.Event) {
		if d := ctrl.Dialog(); d != nil {
			fmt.Fprintf(out, "%s %s\n", d.Title, d.Message)
		}
		// let the alarm ring out before exiting
		alarm := app.settings.Settings().AlarmDuration()
		if !ctrl.IsRinging() || alarm <= 0 {
			cancel()
			return
		}
		time.AfterFunc(alarm, cancel)
	})
	defer app.bus.Unsubscribe(doneID)

	if !ctrl.Start(ctx) {
		if ctrl.StreakWarning() {
			return errStreakWarning
		}
		return errQuotaReached
	}
	if opts.tag != "" {
		ctrl.SetTag(ctx, opts.tag)
	}

	session := ctrl.Session()
	fmt.Fprintf(out, "Started %s (%s), session %s\n",
		ctrl.Mode().Label(), formatCountdown(ctrl.Remaining()), shortID(session.ID))

	go resyncOnResume(runCtx, loop, ctrl)

	err := loop.Run(runCtx)
	if ctrl.State() != services.StateIdle {
		// an interrupted or auto-started countdown; ctx may already be cancelled
		ctrl.StartNewSession(context.Background())
		if ctx.Err() != nil {
			fmt.Fprintln(out, "Interrupted")
		}
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// resyncOnResume corrects the countdown when the process is continued after
// being stopped.
func resyncOnResume(ctx context.Context, loop *timer.Loop, ctrl *services.Controller) {
	if len(resumeSignals) == 0 {
		return
	}
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, resumeSignals...)
	defer signal.Stop(sig)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			loop.Post(func() { ctrl.SyncWithWallClock() })
		}
	}
}

func formatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
