// Package command builds the rulekeeper-server command tree.
package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iudanet/rulekeeper/internal/logging"
	"github.com/iudanet/rulekeeper/internal/metrics"
	"github.com/iudanet/rulekeeper/internal/server"
	"github.com/iudanet/rulekeeper/internal/server/fixture"
	"github.com/iudanet/rulekeeper/internal/server/handlers"
	"github.com/iudanet/rulekeeper/internal/server/jwt"
	"github.com/iudanet/rulekeeper/internal/server/storage/sqlite"
	"github.com/iudanet/rulekeeper/internal/validation"
)

// EnvPrefix префикс переменных окружения сервера, например RULEKEEPER_SERVER_JWT_SECRET
const EnvPrefix = "RULEKEEPER_SERVER"

// Ключи конфигурации совпадают с именами флагов; флаги подкоманд связываются в PreRunE
const (
	keyDB            = "db"
	keyLogLevel      = "log-level"
	keyLogFormat     = "log-format"
	keyAddr          = "addr"
	keyServerID      = "server-id"
	keyServerVersion = "server-version"
	keyJWTSecret     = "jwt-secret"
	keyRateLimit     = "rate-limit"
	keyRatePeriod    = "rate-period"
)

// BuildInfo is set via ldflags during build
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// NewRootCommand builds the rulekeeper-server command tree. Output of token goes to out.
func NewRootCommand(info BuildInfo, out io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "rulekeeper-server",
		Short:         "Development metadata server for RuleKeeper",
		Version:       fmt.Sprintf("%s (built %s, commit %s)", info.Version, info.BuildDate, info.GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.String(keyDB, "rulekeeper-server.db", "SQLite database path")
	pf.String(keyLogLevel, "info", "Log level: debug, info, warn, error")
	pf.String(keyLogFormat, logging.FormatText, "Log format: text or json")
	_ = v.BindPFlags(pf)

	root.AddCommand(
		newServeCommand(v, info),
		newSeedCommand(v),
		newTokenCommand(v, out),
	)
	return root
}

func newLogger(v *viper.Viper, w io.Writer) (*slog.Logger, error) {
	return logging.New(w, logging.Config{Level: v.GetString(keyLogLevel), Format: v.GetString(keyLogFormat)})
}

func newServeCommand(v *viper.Viper, info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the metadata API",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return v.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return serve(cmd.Context(), v, info, logger)
		},
	}

	f := cmd.Flags()
	f.String(keyAddr, ":9000", "Listen address")
	f.String(keyServerID, "dev", "Server id advertised by api/system/status")
	f.String(keyServerVersion, "9.9", "Server version advertised by api/system/status")
	f.String(keyJWTSecret, "", "HS256 secret; when set api/ routes require a bearer token")
	f.Int(keyRateLimit, 0, "Requests per client per rate period, 0 disables limiting")
	f.Duration(keyRatePeriod, time.Minute, "Rate limit window")

	return cmd
}

func serve(ctx context.Context, v *viper.Viper, info BuildInfo, logger *slog.Logger) error {
	serverID := v.GetString(keyServerID)
	if err := validation.ValidateServerID(serverID); err != nil {
		return err
	}

	store, err := sqlite.New(ctx, v.GetString(keyDB), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := server.Config{
		Metrics:    metrics.New(true),
		Info:       handlers.ServerInfo{ID: serverID, Version: v.GetString(keyServerVersion)},
		Addr:       v.GetString(keyAddr),
		AppVersion: info.Version,
		RateLimit:  v.GetInt(keyRateLimit),
		RatePeriod: v.GetDuration(keyRatePeriod),
	}
	if secret := v.GetString(keyJWTSecret); secret != "" {
		signer, err := jwt.NewSigner([]byte(secret), 0)
		if err != nil {
			return err
		}
		cfg.Validator = signer
	} else {
		logger.Warn("No JWT secret configured, API is open")
	}

	srv, err := server.New(cfg, store, logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func newSeedCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Replace the database contents with a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ds, err := fixture.Load(args[0])
			if err != nil {
				return err
			}

			store, err := sqlite.New(cmd.Context(), v.GetString(keyDB), logger)
			if err != nil {
				return err
			}
			defer store.Close()

			return store.Seed(cmd.Context(), ds)
		},
	}
}

func newTokenCommand(v *viper.Viper, out io.Writer) *cobra.Command {
	var (
		ttl   time.Duration
		scope string
	)

	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Print a bearer token for subject",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return v.BindPFlag(keyJWTSecret, cmd.Flags().Lookup(keyJWTSecret))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := jwt.NewSigner([]byte(v.GetString(keyJWTSecret)), ttl)
			if err != nil {
				return fmt.Errorf("%w (set --%s or %s_JWT_SECRET)", err, keyJWTSecret, EnvPrefix)
			}

			token, err := signer.Issue(args[0], scope)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, token)
			return err
		},
	}

	cmd.Flags().String(keyJWTSecret, "", "HS256 secret shared with serve")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime, 0 for no expiry")
	cmd.Flags().StringVar(&scope, "scope", "", "Optional scope claim")

	return cmd
}
