package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cladeviz/clade/pkg/buildinfo"
	"github.com/cladeviz/clade/pkg/cache"
	"github.com/cladeviz/clade/pkg/config"
	"github.com/cladeviz/clade/pkg/errors"
	"github.com/cladeviz/clade/pkg/newick"
	"github.com/cladeviz/clade/pkg/pipeline"
	"github.com/cladeviz/clade/pkg/tree"
)

// appName is the application name used for directories and display.
const appName = "clade"

// Execute runs the clade CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          appName,
		Short:        "clade inspects and draws phylogenetic trees",
		Long:         `clade is a toolkit for phylogenetic trees in Newick format: parse and validate them, reroot and prune them, compare them, and draw them as dendrograms or node-link diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default clade.toml if present)")

	root.AddCommand(newStatsCmd())
	root.AddCommand(newRerootCmd())
	root.AddCommand(newPruneCmd())
	root.AddCommand(newBinaryCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newViewCmd())
	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newCacheCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}

// loadConfig reads the config file named by the persistent --config flag.
func loadConfig(path string) (config.Config, error) {
	return config.Load(path)
}

// readTree loads and parses a Newick tree from path, or from stdin when path
// is "-".
func readTree(path string) (*tree.Tree, error) {
	if path == "-" {
		return newick.Read(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return newick.Read(f)
}

// readNewick loads raw Newick text from path, or from stdin when path is "-".
func readNewick(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	return string(data), nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// newRunner creates a pipeline runner for CLI use.
func newRunner(noCache bool, logger *charmlog.Logger) *pipeline.Runner {
	return pipeline.NewRunner(newCLICache(noCache), logger)
}

func newCLICache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return c
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/clade/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
