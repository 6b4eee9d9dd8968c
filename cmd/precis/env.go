package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"precis/internal/config"
	"precis/internal/observ"
)

// cmdEnv is the state every subcommand starts from: the resolved config,
// the phase timer and the cleanups of tracing and profiling.
type cmdEnv struct {
	cfg      config.Config
	timer    *observ.Timer
	quiet    bool
	timings  bool
	cleanups []func()
}

// prepare resolves precis.toml, applies the color mode, and starts tracing
// and profiling. The caller must defer env.close.
func prepare(cmd *cobra.Command) (*cmdEnv, error) {
	root := cmd.Root().PersistentFlags()
	env := &cmdEnv{timer: observ.NewTimer()}

	var err error
	if env.quiet, err = root.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if env.timings, err = root.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	colorMode, err := root.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	if err := applyColorMode(colorMode); err != nil {
		return nil, err
	}

	configPath, err := root.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	idx := env.timer.Begin("config")
	env.cfg, err = config.Resolve(configPath, wd)
	if err != nil {
		return nil, err
	}
	env.cfg.ApplyKernel()
	note := "defaults"
	if env.cfg.Path != "" {
		note = env.cfg.Path
	}
	env.timer.End(idx, note)

	stopTrace, err := setupTracing(cmd, env.cfg.Trace)
	if err != nil {
		return nil, err
	}
	env.cleanups = append(env.cleanups, stopTrace)

	stopProf, err := setupProfiling(cmd)
	if err != nil {
		env.close()
		return nil, err
	}
	env.cleanups = append(env.cleanups, stopProf)
	return env, nil
}

// close runs cleanups in reverse order and prints timings when requested.
func (e *cmdEnv) close() {
	for i := len(e.cleanups) - 1; i >= 0; i-- {
		e.cleanups[i]()
	}
	e.cleanups = nil
}

func (e *cmdEnv) printTimings(cmd *cobra.Command) {
	if !e.timings {
		return
	}
	if err := e.timer.WriteSummary(cmd.ErrOrStderr()); err != nil {
		fmt.Fprintf(os.Stderr, "timings: %v\n", err)
	}
}

func applyColorMode(mode string) error {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}
