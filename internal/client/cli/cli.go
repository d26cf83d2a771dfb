package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/iudanet/rulekeeper/internal/analysis"
	"github.com/iudanet/rulekeeper/internal/client/engine"
	"github.com/iudanet/rulekeeper/internal/client/iocli"
	"github.com/iudanet/rulekeeper/internal/models"
	"github.com/iudanet/rulekeeper/internal/progress"
)

// TokenEnv is the environment variable with the highest token priority
const TokenEnv = "RULEKEEPER_TOKEN"

// Engine is what the commands need from the orchestrator
type Engine interface {
	State() engine.State
	Analyze(ctx context.Context, cfg analysis.Config, listener analysis.IssueListener, handlers ...analysis.PhaseHandler) (*analysis.Results, error)
	RuleDetails(ctx context.Context, ruleKey string) (models.RuleDetails, error)
	AllModulesByKey(ctx context.Context) (map[string]models.RemoteModule, error)
	AllProjectsByKey(ctx context.Context) (map[string]models.RemoteProject, error)
	GlobalSyncStatus(ctx context.Context) (*models.GlobalSyncStatus, error)
	ModuleSyncStatus(ctx context.Context, moduleKey string) (*models.ModuleSyncStatus, error)
	Update(ctx context.Context, pw *progress.Wrapper) (*models.GlobalSyncStatus, error)
	UpdateModule(ctx context.Context, moduleKey string, pw *progress.Wrapper) (*models.ModuleSyncStatus, error)
}

var _ Engine = (*engine.Engine)(nil)

// Cli executes commands against an engine and prints to io
type Cli struct {
	io       iocli.IO
	engine   Engine
	serverID string
}

// New creates a Cli
func New(io iocli.IO, e Engine, serverID string) *Cli {
	return &Cli{io: io, engine: e, serverID: serverID}
}

// TokenSources lists where the server token may come from
type TokenSources struct {
	FromFile string
	FromArgs string
	// Prompt allows asking for the token interactively when nothing else is set
	Prompt bool
}

// ReadToken returns the server token from various sources with priority:
// 1. Environment variable RULEKEEPER_TOKEN
// 2. File specified in FromFile
// 3. FromArgs (--token flag or config)
// 4. Interactive prompt, if enabled and stdin is a terminal
// An empty token means anonymous access.
func ReadToken(io iocli.IO, sources TokenSources) (string, error) {
	// Priority 1: Environment variable
	if envToken := os.Getenv(TokenEnv); envToken != "" {
		return envToken, nil
	}

	// Priority 2: File
	if sources.FromFile != "" {
		content, err := os.ReadFile(sources.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read token file: %w", err)
		}
		token := strings.TrimSpace(string(content))
		if token == "" {
			return "", errors.New("token file is empty")
		}
		return token, nil
	}

	// Priority 3: CLI parameter или config
	if sources.FromArgs != "" {
		return sources.FromArgs, nil
	}

	// Priority 4: Interactive prompt
	if !sources.Prompt || !io.IsTerminal() {
		return "", nil
	}
	token, err := io.ReadSecret("Server token: ")
	if err != nil {
		return "", fmt.Errorf("failed to read token from stdin: %w", err)
	}
	if token == "" {
		return "", errors.New("token cannot be empty")
	}
	return token, nil
}

// newProgress печатает прогресс только при смене целого процента
func (c *Cli) newProgress() *progress.Wrapper {
	last := -1
	return progress.New(progress.MonitorFunc(func(fraction float64, message string) {
		percent := int(fraction * 100)
		if percent == last {
			return
		}
		last = percent
		c.io.Printf("[%3d%%] %s\n", percent, message)
	}))
}
