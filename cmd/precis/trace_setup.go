package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"precis/internal/config"
	"precis/internal/trace"
)

// setupTracing builds the tracer from the [trace] table, with the trace
// flags taking precedence, and attaches it to the command context.
func setupTracing(cmd *cobra.Command, tc config.TraceConfig) (func(), error) {
	root := cmd.Root().PersistentFlags()

	output := tc.Output
	if root.Changed("trace") {
		v, err := root.GetString("trace")
		if err != nil {
			return nil, fmt.Errorf("failed to get trace flag: %w", err)
		}
		output = v
	}

	level := tc.Level
	if root.Changed("trace-level") {
		v, err := root.GetString("trace-level")
		if err != nil {
			return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
		}
		if level, err = trace.ParseLevel(v); err != nil {
			return nil, fmt.Errorf("invalid trace level: %w", err)
		}
	} else if root.Changed("trace") && level == trace.LevelOff {
		// --trace alone means "trace phases"
		level = trace.LevelPhase
	}

	formatStr := tc.Format
	if root.Changed("trace-format") {
		v, err := root.GetString("trace-format")
		if err != nil {
			return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
		}
		formatStr = v
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}

	modeStr, err := root.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := root.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	ctx, span := trace.Start(ctx, trace.ScopeCommand, cmd.CommandPath())
	cmd.SetContext(ctx)

	return func() {
		span.End("")
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}
