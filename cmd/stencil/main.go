package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chazu/stencilstation/pkg/config"
	"github.com/chazu/stencilstation/pkg/generator"
	"github.com/chazu/stencilstation/pkg/kernel"
	"github.com/chazu/stencilstation/pkg/kernel/sdfx"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger

	// newKernel builds the geometry kernel for a render.
	newKernel = func(cfg config.Config) kernel.Kernel {
		return sdfx.New(sdfx.WithMeshCells(cfg.Resolution))
	}
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "stencil",
	Short: "Generate 3D-printable parts for a pen stencil station",
	Long: `stencil builds the parts of a magnetic drawing jig: a base plate, a
top frame, and interchangeable inserts with grooves shaped to guide a pen.

The configuration file (YAML) sets the window size, plate thicknesses,
magnets, graph bounds, pen, and which generator to run. Keys that are not
set keep their defaults.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file (default: built-in defaults)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and logs its warnings.
func loadConfig() (config.Config, error) {
	cfg, warnings, err := config.Load(configPath)
	for _, w := range warnings {
		logger.Warn("configuration", zap.String("field", w.Field), zap.String("warning", w.Message))
	}
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// resolveKind picks the generator from the flag, falling back to the
// configuration.
func resolveKind(flag string, cfg config.Config) (generator.Kind, error) {
	if flag == "" {
		flag = cfg.Generator
	}
	return generator.ParseKind(flag)
}
