// Powernap is a power-nap countdown for the terminal.
//
// Usage:
//
//	powernap [--duration 20m] [--plain] [--trigger calendar|interval]
//	powernap config
//	powernap version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/powernap/internal/config"
)

// options holds the command-line flags. Zero values mean "use config".
type options struct {
	configPath string
	duration   time.Duration
	trigger    string
	plain      bool
	noSound    bool
	noDesktop  bool
	verbose    bool
	quiet      bool
	logFile    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "powernap",
		Short: "Power-nap countdown with a wake-up alarm",
		Long: `powernap runs a short countdown and wakes you when it is over.
Press enter (or the button) to start the nap and again to cancel it. When
the time is up a notification fires and you can snooze for a few more
minutes.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, opts)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "config file (default ~/.powernap/config.yaml)")
	f.DurationVarP(&opts.duration, "duration", "d", 0, "nap length, e.g. 20m (default from config, 10s)")
	f.StringVar(&opts.trigger, "trigger", "", "notification trigger: calendar or interval")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose/debug logging")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "disable all logging")
	f.StringVar(&opts.logFile, "log-file", "", "file to write logs to (use \"stderr\" to log to console)")
	root.Flags().BoolVar(&opts.plain, "plain", false, "line mode instead of the full-screen UI")
	root.Flags().BoolVar(&opts.noSound, "no-sound", false, "do not sound the alarm")
	root.Flags().BoolVar(&opts.noDesktop, "no-desktop", false, "do not raise desktop notifications")

	root.AddCommand(newConfigCmd(opts), newVersionCmd())
	return root
}

// loadConfig reads the config file and .env, then applies flags the user
// set explicitly.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath, ".env")
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("duration") {
		cfg.Nap.Duration = config.Duration(opts.duration)
	}
	if flags.Changed("trigger") {
		cfg.Notification.Trigger = opts.trigger
	}
	if flags.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	if opts.verbose {
		cfg.Log.Level = "verbose"
	}
	if opts.quiet {
		cfg.Log.Level = "off"
	}
	if opts.noSound {
		cfg.Notification.Sound = false
	}
	if opts.noDesktop {
		cfg.Notification.Desktop = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
