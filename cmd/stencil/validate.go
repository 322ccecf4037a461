package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/stencilstation/pkg/config"
	"github.com/chazu/stencilstation/pkg/kernel/bbox"
	"github.com/chazu/stencilstation/pkg/studio"
)

// validateCmd checks a configuration without rendering.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and compile its user curves",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, warnings, err := config.Load(configPath)
	for _, w := range warnings {
		fmt.Fprintln(out, w.Error())
	}
	var invalid *config.InvalidError
	if errors.As(err, &invalid) {
		for _, e := range invalid.Errors {
			fmt.Fprintln(out, e.Error())
		}
		return fmt.Errorf("configuration has %d error(s)", len(invalid.Errors))
	}
	if err != nil {
		return err
	}

	app := studio.NewApp(bbox.New(), logger)
	failed := 0
	for _, spec := range cfg.Curves {
		msgs := app.CheckCurve(spec)
		for _, m := range msgs {
			if m.Line > 0 {
				fmt.Fprintf(out, "[error] curve %s: line %d: %s\n", spec.Name, m.Line, m.Message)
			} else {
				fmt.Fprintf(out, "[error] curve %s: %s\n", spec.Name, m.Message)
			}
		}
		if len(msgs) > 0 {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d curve(s) failed to compile", failed)
	}
	fmt.Fprintln(out, "configuration ok")
	return nil
}
