// Package cli assembles the scitext command tree: global flag handling,
// configuration loading, logger construction, and pipeline wiring shared by
// the normalize and tokenize subcommands.
package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/SciText-Prep/internal/abbrev"
	"github.com/turtacn/SciText-Prep/internal/clean"
	"github.com/turtacn/SciText-Prep/internal/config"
	"github.com/turtacn/SciText-Prep/internal/extract"
	"github.com/turtacn/SciText-Prep/internal/history"
	"github.com/turtacn/SciText-Prep/internal/logging"
	"github.com/turtacn/SciText-Prep/internal/metrics"
	"github.com/turtacn/SciText-Prep/internal/pipeline"
	"github.com/turtacn/SciText-Prep/internal/resolve"
	"github.com/turtacn/SciText-Prep/internal/token"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds global CLI flags.
type rootOptions struct {
	configPath string
	logLevel   string
	historyDir string
	save       bool
}

// deps carries the initialized collaborators through the command tree.
type deps struct {
	cfg      *config.Config
	logger   logging.Logger
	pipeline *pipeline.Pipeline
	session  *pipeline.Session
	store    *history.Store
	metrics  *metrics.Metrics
}

// NewRootCommand creates the scitext root command with all subcommands.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	d := &deps{}

	cmd := &cobra.Command{
		Use:     "scitext",
		Short:   "Preprocess scientific abstracts for materials-science text mining",
		Long:    "scitext cleans scientific abstracts, canonicalizes chemical entity\nmentions through PubChem, eliminates defined abbreviations, and produces\nentity-aware token sequences for downstream embedding training.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return d.init(opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (SCITEXT_* env vars used when omitted)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVar(&opts.historyDir, "history-dir", "", "session persistence directory override")
	pf.BoolVar(&opts.save, "save", false, "persist session state to the history directory")

	cmd.AddCommand(newNormalizeCommand(d))
	cmd.AddCommand(newTokenizeCommand(d))

	return cmd
}

// init loads configuration and wires the pipeline once per invocation.
func (d *deps) init(opts *rootOptions) error {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.historyDir != "" {
		cfg.History.Dir = opts.historyDir
	}
	if opts.save {
		cfg.Pipeline.Save = true
	}
	d.cfg = cfg

	logCfg := logging.LogConfig{Level: cfg.Log.Level, Format: cfg.Log.Format}
	if cfg.Log.OutputPath != "" {
		logCfg.OutputPaths = []string{cfg.Log.OutputPath}
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return err
	}
	d.logger = logger

	var telemetry pipeline.Telemetry = pipeline.NopTelemetry()
	var resolverMetrics resolve.Metrics
	if cfg.Metrics.Enabled {
		m := metrics.New(cfg.Metrics.Namespace)
		d.metrics = m
		telemetry = m
		resolverMetrics = m
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.ListenAddr, m.Handler()); err != nil {
				logger.Warn("metrics listener stopped", logging.Err(err))
			}
		}()
	}

	var shared resolve.LookupCache
	if cfg.Redis.Enabled {
		shared = resolve.NewRedisLookupCache(resolve.RedisCacheConfig{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			KeyPrefix:    cfg.Redis.KeyPrefix,
			TTL:          cfg.Redis.DefaultTTL,
		})
	}

	lookup := resolve.NewPubChemClient(resolve.WithBaseURL(cfg.Resolver.BaseURL))
	resolver := resolve.NewResolver(lookup, shared, resolve.Config{
		LookupTimeout:  cfg.Resolver.LookupTimeout,
		LookupAttempts: cfg.Resolver.LookupAttempts,
		RetryBackoff:   cfg.Resolver.RetryBackoff,
	}, resolverMetrics, logger.Named("resolve"))

	tagger := extract.NewTagger()
	eliminator := abbrev.NewEliminator(extract.NewAbbrevScanner(), tagger, logger.Named("abbrev"))
	tokenizer := token.NewTokenizer(
		extract.NewChemWordTokenizer(),
		extract.NewSegmenter(),
		extract.NewMaterialsNormalizer(),
		logger.Named("token"),
	)

	if cfg.Pipeline.Save || opts.historyDir != "" {
		d.store = history.NewStore(cfg.History.Dir, logger.Named("history"))
	}

	d.pipeline = pipeline.New(
		clean.NewCleaner(logger.Named("clean")),
		eliminator,
		tagger,
		resolver,
		tokenizer,
		d.store,
		telemetry,
		pipeline.Config{
			RemoveAbbreviations: cfg.Pipeline.RemoveAbbreviations,
			Save:                cfg.Pipeline.Save,
			SaveFreq:            cfg.Pipeline.SaveFreq,
		},
		logger.Named("pipeline"),
	)
	d.session = pipeline.NewSession()
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// readLines loads input texts, one per line.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var texts []string
	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' {
			if line := string(data[start:i]); line != "" {
				texts = append(texts, line)
			}
			start = i + 1
		}
	}
	if start < len(data) {
		texts = append(texts, string(data[start:]))
	}
	return texts, nil
}
