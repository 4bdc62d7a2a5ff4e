package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/pauselab/internal/config"
	"github.com/dtroode/pauselab/internal/logger"
)

// cli holds per-invocation state. The app graph is built lazily so that
// --help and --version never touch storage.
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	loadConfig func() (*config.Config, error)
	now        func() time.Time
	rnd        *rand.Rand
	tick       time.Duration

	app *app
}

func newCLI(in io.Reader, out, errOut io.Writer, loadConfig func() (*config.Config, error)) *cli {
	return &cli{
		in:         in,
		out:        out,
		errOut:     errOut,
		loadConfig: loadConfig,
		now:        time.Now,
		rnd:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		tick:       time.Second,
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pauselab",
		Short: "Digital wellbeing study: short pauses, streaks and weekly check-ins",
		Long: `pauselab tracks a four-week digital wellbeing study.

Complete onboarding with a short self-report assessment, take guided pauses,
record how you felt afterwards and check in once a week. Progress is kept in
a single local record that can be exported for research.`,
		Version:       fmt.Sprintf("%s (built %s, commit %s)", buildVersion, buildDate, buildCommit),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd)
		},
	}

	root.AddCommand(
		c.statusCmd(),
		c.onboardCmd(),
		c.assessCmd(),
		c.checkinCmd(),
		c.pauseCmd(),
		c.favouriteCmd(),
		c.demographicsCmd(),
		c.remindersCmd(),
		c.consentCmd(),
		c.exportCmd(),
		c.resetCmd(),
	)

	return root
}

func (c *cli) init(cmd *cobra.Command) error {
	if c.app != nil {
		return nil
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	log := logger.NewWithFormat(c.errOut, cfg.LogLevel, cfg.LogFormat)

	a, err := newApp(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *cli) close() {
	if c.app == nil {
		return
	}
	if err := c.app.close(); err != nil {
		c.app.logger.Error("failed to shut down cleanly", "error", err)
	}
	c.app = nil
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
