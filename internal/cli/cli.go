package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ldraw/pkg/buildinfo"
	"github.com/matzehuels/ldraw/pkg/cache"
	"github.com/matzehuels/ldraw/pkg/observability"
	"github.com/matzehuels/ldraw/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "ldraw"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	out        io.Writer
	configPath string
	verbose    bool
}

// New creates a CLI logging to w at level. Command output goes to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output.
func (c *CLI) SetOutput(w io.Writer) { c.out = w }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "ldraw builds LDraw scene scripts",
		Long:          `ldraw builds LDraw scene scripts from TOML, YAML or JSON scene descriptions, writes them as text or binary, and inspects the results.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+defaultConfigHint()+")")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.prettyCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.keywordsCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file, applies --verbose and attaches the logger
// to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	path := c.configPath
	explicit := path != ""
	if !explicit {
		path, _ = configFile()
	}
	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return err
	}
	c.Config = cfg

	if c.verbose {
		c.SetLogLevel(LogDebug)
		observability.SetPipelineHooks(observability.NewLogHooks(c.Logger))
		observability.SetCacheHooks(observability.NewLogHooks(c.Logger))
	}
	c.Logger.Debug("config", "path", path, "pretty", cfg.Pretty, "binary", cfg.Binary)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// newCache picks redis when a URL is configured, else the file cache.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if url := c.Config.Cache.RedisURL; url != "" {
		rc, err := cache.NewRedisCache(url, cache.WithKeyPrefix(appName+":"))
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache", "addr", rc.Addr())
		return cache.WithTTL(rc, c.Config.Cache.TTL.Duration), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return cache.WithTTL(fc, c.Config.Cache.TTL.Duration), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/ldraw/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

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

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats splits a comma-separated format list.
func parseFormats(s, fallback string) []string {
	if s == "" {
		return []string{fallback}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// trimExt drops the extension of path.
func trimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
