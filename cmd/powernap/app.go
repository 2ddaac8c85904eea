package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/hammamikhairi/powernap/internal/alarm"
	"github.com/hammamikhairi/powernap/internal/config"
	"github.com/hammamikhairi/powernap/internal/console"
	"github.com/hammamikhairi/powernap/internal/display"
	"github.com/hammamikhairi/powernap/internal/domain"
	"github.com/hammamikhairi/powernap/internal/engine"
	"github.com/hammamikhairi/powernap/internal/logger"
	"github.com/hammamikhairi/powernap/internal/loop"
	"github.com/hammamikhairi/powernap/internal/notify"
	"github.com/hammamikhairi/powernap/internal/storage"
	"github.com/hammamikhairi/powernap/internal/timer"
)

func run(ctx context.Context, cfg *config.Config, opts *options) error {
	logOut, closeLog := openLog(cfg.Log.File)
	defer closeLog()

	// Redirect Go's default log package (used by audio and notification
	// libraries) to the same output so it doesn't spam the terminal.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(cfg.LogLevel(), logOut)
	log.Info("powernap %s starting (nap=%s trigger=%s)", version, cfg.Nap.Duration.Std(), cfg.Notification.Trigger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.plain || !interactive() {
		return runPlain(ctx, cancel, cfg, log)
	}
	return runTUI(ctx, cfg, log)
}

// openLog opens the log file, falling back to stderr.
func openLog(path string) (io.Writer, func()) {
	if path == "" || path == "stderr" {
		return os.Stderr, func() {}
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr, func() {}
	}
	return f, func() { f.Close() }
}

func interactive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// napper is the wired nap session.
type napper struct {
	ctrl   *engine.Controller
	center *notify.LocalCenter
	player *alarm.Player
}

// close cancels anything still pending and releases the audio device.
func (n *napper) close() {
	n.center.Close()
	if n.player != nil {
		n.player.Stop()
	}
}

// newNapper wires the countdown, notification center and controller.
// Ticks are handed to dispatch so they run on the caller's event loop.
func newNapper(ctx context.Context, cfg *config.Config, dispatch timer.Dispatcher, view domain.Presenter, printFn console.PrintFunc, log *logger.Logger) *napper {
	n := &napper{}

	notifiers := notify.Fanout{console.NewTextNotifier(log.Named("text"), printFn)}
	if cfg.Notification.Desktop {
		notifiers = append(notifiers, notify.NewDesktop(log.Named("desktop")))
	}
	if cfg.Notification.Sound {
		player, err := alarm.NewPlayer(log.Named("audio"))
		if err != nil {
			log.Error("audio player init failed, alarm disabled: %v", err)
		} else {
			n.player = player
			alarmOpts := []alarm.Option{
				alarm.WithPattern(cfg.Alarm.Frequency, cfg.Alarm.Beeps, alarm.DefaultBeepLen, alarm.DefaultGap),
				alarm.WithVolume(cfg.Alarm.Volume),
			}
			if cfg.Alarm.File != "" {
				alarmOpts = append(alarmOpts, alarm.WithSoundFile(cfg.Alarm.File))
			}
			notifiers = append(notifiers, alarm.New(player, log.Named("alarm"), alarmOpts...))
		}
	}

	n.center = notify.NewLocalCenter(storage.NewPendingStore(log.Named("store")), notifiers, log.Named("notify"))
	alerts := notify.NewAlerts(n.center, log.Named("alerts"),
		notify.WithContent(cfg.Notification.Title, cfg.Notification.Body),
		notify.WithTriggerMode(cfg.TriggerMode()),
	)

	sched := timer.NewTickerScheduler(ctx, dispatch, log.Named("ticker"))
	countdown := timer.New(sched, log.Named("timer"))
	n.ctrl = engine.New(countdown, alerts, view, log.Named("engine"),
		engine.WithNapDuration(cfg.Nap.Duration.Std()),
	)
	return n
}

// runTUI runs the full-screen Bubble Tea UI. Blocks until quit.
func runTUI(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	ui := display.NewUI()
	n := newNapper(ctx, cfg, ui.Dispatch, ui, ui.Printf, log)
	defer n.close()
	ui.Bind(n.ctrl)

	fmt.Println(display.RenderBanner())

	go func() {
		ui.WaitReady()
		ui.Dispatch(n.ctrl.Render)
		select {
		case <-ctx.Done():
			ui.Quit()
		case <-ui.QuitChan():
		}
	}()

	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// runPlain runs the line-mode console with its own event loop.
func runPlain(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, log *logger.Logger) error {
	lp := loop.New(log.Named("loop"))
	con := console.New(os.Stdout, isTerminal(os.Stdout), log.Named("console"))
	n := newNapper(ctx, cfg, lp.Post, con, con.Printf, log)
	defer n.close()

	go lp.Run(ctx)
	lp.Post(n.ctrl.Render)

	err := con.Run(ctx, os.Stdin, n.ctrl, lp.Post, cancel)
	cancel()
	<-lp.Done()
	fmt.Fprintln(os.Stdout)
	return err
}
