package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/iudanet/rulekeeper/internal/client/api"
	"github.com/iudanet/rulekeeper/internal/client/engine"
	"github.com/iudanet/rulekeeper/internal/client/iocli"
	"github.com/iudanet/rulekeeper/internal/client/storage"
	"github.com/iudanet/rulekeeper/internal/client/sync"
	"github.com/iudanet/rulekeeper/internal/config"
	"github.com/iudanet/rulekeeper/internal/logging"
	"github.com/iudanet/rulekeeper/internal/metrics"
)

// BuildInfo is set via ldflags during build
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// rootOptions флаги, которые не попадают в viper
type rootOptions struct {
	configFile  string
	envFile     string
	tokenFile   string
	promptToken bool
}

// flagKeys связывает persistent флаги с ключами конфигурации
var flagKeys = map[string]string{
	"server":           config.KeyServerURL,
	"server-id":        config.KeyServerID,
	"organization":     config.KeyServerOrganization,
	"token":            config.KeyServerToken,
	"timeout":          config.KeyHTTPTimeout,
	"storage":          config.KeyStorageRoot,
	"backend":          config.KeyStorageBackend,
	"rule-cache":       config.KeyRuleCatalogCache,
	"log-level":        config.KeyLogLevel,
	"log-format":       config.KeyLogFormat,
	"metrics-textfile": config.KeyMetricsTextfile,
}

// session живет в пределах одной команды
type session struct {
	cli     *Cli
	engine  *engine.Engine
	metrics *metrics.Metrics
	logger  *slog.Logger
	cfg     *config.Config
}

func (s *session) close() error {
	var errs []error
	if err := s.engine.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
	}
	if path := s.cfg.Metrics.Textfile; path != "" {
		if err := s.metrics.WriteTextfile(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewRootCommand builds the rulekeeper command tree
func NewRootCommand(info BuildInfo, io iocli.IO) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "rulekeeper",
		Short:         "Synchronize code-quality server metadata and analyze files against it",
		Version:       fmt.Sprintf("%s (built %s, commit %s)", info.Version, info.BuildDate, info.GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(io)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default $HOME/.rulekeeper/config.yaml)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "file with RULEKEEPER_* variables")
	flags.StringVar(&opts.tokenFile, "token-file", "", "path to file containing the server token")
	flags.BoolVar(&opts.promptToken, "prompt-token", false, "ask for the server token when none is configured")
	flags.String("server", "", "server URL")
	flags.String("server-id", "", "server id, names the storage directory")
	flags.String("organization", "", "server organization")
	flags.String("token", "", "server token (not recommended, use RULEKEEPER_TOKEN or --token-file)")
	flags.Duration("timeout", 0, "HTTP request timeout")
	flags.String("storage", "", "storage root directory")
	flags.String("backend", "", "storage backend: fs, bolt or badger")
	flags.Int("rule-cache", 0, "number of decoded rule catalogs kept in memory, 0 disables")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")
	flags.String("metrics-textfile", "", "write Prometheus metrics to this file on exit")

	// needsServer: только команды синхронизации обращаются к серверу и требуют token
	run := func(needsServer bool, fn func(ctx context.Context, c *Cli, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) (err error) {
			s, err := openSession(cmd, opts, io, needsServer)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, s.close())
			}()
			return fn(cmd.Context(), s.cli, args)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "sync",
			Short: "Synchronize server status, plugins, rules, projects and modules",
			Args:  cobra.NoArgs,
			RunE: run(true, func(ctx context.Context, c *Cli, _ []string) error {
				return c.runSync(ctx)
			}),
		},
		&cobra.Command{
			Use:     "update-module <module-key>",
			Aliases: []string{"sync-module"},
			Short:   "Synchronize the active rules of one module",
			Args:    cobra.ExactArgs(1),
			RunE: run(true, func(ctx context.Context, c *Cli, args []string) error {
				return c.runUpdateModule(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "status [module-key]",
			Short: "Show synchronization status",
			Args:  cobra.MaximumNArgs(1),
			RunE: run(false, func(ctx context.Context, c *Cli, args []string) error {
				moduleKey := ""
				if len(args) == 1 {
					moduleKey = args[0]
				}
				return c.runStatus(ctx, moduleKey)
			}),
		},
		&cobra.Command{
			Use:   "rule <rule-key>",
			Short: "Show the description of a rule",
			Args:  cobra.ExactArgs(1),
			RunE: run(false, func(ctx context.Context, c *Cli, args []string) error {
				return c.runRule(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "modules",
			Short: "List synchronized modules",
			Args:  cobra.NoArgs,
			RunE: run(false, func(ctx context.Context, c *Cli, _ []string) error {
				return c.runModules(ctx)
			}),
		},
		&cobra.Command{
			Use:   "projects",
			Short: "List synchronized projects",
			Args:  cobra.NoArgs,
			RunE: run(false, func(ctx context.Context, c *Cli, _ []string) error {
				return c.runProjects(ctx)
			}),
		},
		newAnalyzeCommand(run),
	)
	return root
}

type runFunc func(needsServer bool, fn func(ctx context.Context, c *Cli, args []string) error) func(*cobra.Command, []string) error

func newAnalyzeCommand(run runFunc) *cobra.Command {
	opts := analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Analyze files with the synchronized rules",
		Long: `Analyze files relative to --base-dir with the rules of the synchronized server.
Without --module every rule of the catalog is active; with --module only the rules of
the module quality profiles are, and the module must have been synchronized.`,
		RunE: run(false, func(ctx context.Context, c *Cli, args []string) error {
			opts.files = args
			return c.runAnalyze(ctx, opts)
		}),
	}
	cmd.Flags().StringVar(&opts.baseDir, "base-dir", ".", "directory the files are relative to")
	cmd.Flags().StringVarP(&opts.moduleKey, "module", "m", "", "server module the files belong to")
	cmd.Flags().StringToStringVarP(&opts.properties, "define", "D", nil, "analysis property, e.g. -D text.maxLineLength=100")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "print sensor execution")
	cmd.Flags().BoolVar(&opts.failOnIssues, "fail-on-issues", false, "exit with an error when issues are found")
	return cmd
}

// openSession читает конфигурацию, открывает хранилище и запускает engine
func openSession(cmd *cobra.Command, opts *rootOptions, io iocli.IO, needsServer bool) (*session, error) {
	ctx := cmd.Context()

	if err := config.LoadEnvFile(opts.envFile); err != nil {
		return nil, err
	}

	v := config.NewViper()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}
	cfg, err := config.Load(v, opts.configFile)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(os.Stderr, cfg.LoggingConfig())
	if err != nil {
		return nil, err
	}
	m := metrics.New(false)

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	manager, err := storage.NewManager(store, logger, storage.WithRuleCatalogCache(cfg.Cache.RuleCatalogSize))
	if err != nil {
		store.Close()
		return nil, err
	}

	engineOpts := []engine.Option{engine.WithLogger(logger), engine.WithMetrics(m)}
	if needsServer {
		token, err := ReadToken(io, TokenSources{FromFile: opts.tokenFile, FromArgs: cfg.Server.Token, Prompt: opts.promptToken})
		if err != nil {
			manager.Close()
			return nil, err
		}
		client := api.NewClient(cfg.Server.URL,
			api.WithToken(token),
			api.WithOrganization(cfg.Server.Organization),
			api.WithTimeout(cfg.HTTP.Timeout),
			api.WithLogger(logger),
			api.WithMetrics(m),
		)
		downloader := sync.NewDownloader(client, cfg.Server.Organization, logger, m)
		engineOpts = append(engineOpts, engine.WithSync(sync.NewService(downloader, manager)))
	}

	e := engine.New(engine.Config{ServerID: cfg.Server.ID, StorageRoot: cfg.ServerStorageRoot()}, manager, engineOpts...)
	if err := e.Start(ctx); err != nil {
		manager.Close()
		return nil, err
	}

	return &session{
		cli:     New(io, e, cfg.Server.ID),
		engine:  e,
		metrics: m,
		logger:  logger,
		cfg:     cfg,
	}, nil
}
