package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/rulekeeper/internal/analysis"
	"github.com/iudanet/rulekeeper/internal/validation"
)

// ErrIssuesFound is returned by analyze --fail-on-issues when at least one issue was reported
var ErrIssuesFound = errors.New("issues found")

type analyzeOptions struct {
	properties   map[string]string
	baseDir      string
	moduleKey    string
	files        []string
	verbose      bool
	failOnIssues bool
}

func (c *Cli) runAnalyze(ctx context.Context, opts analyzeOptions) error {
	if opts.moduleKey != "" {
		if err := validation.ValidateComponentKey(opts.moduleKey); err != nil {
			return err
		}
	}

	cfg := analysis.Config{
		BaseDir:    opts.baseDir,
		ModuleKey:  opts.moduleKey,
		InputFiles: opts.files,
		Properties: opts.properties,
	}

	var handlers []analysis.PhaseHandler
	if opts.verbose {
		handlers = append(handlers, &phasePrinter{cli: c})
	}

	results, err := c.engine.Analyze(ctx, cfg, func(issue analysis.Issue) {
		location := issue.File
		if issue.Line > 0 {
			location = fmt.Sprintf("%s:%d", issue.File, issue.Line)
		}
		c.io.Printf("%s: [%s] %s (%s)\n", location, issue.Severity, issue.Message, issue.RuleKey)
	}, handlers...)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Printf("Analysis %s: %d file(s), %d issue(s) in %dms\n",
		results.ID, results.FileCount, results.IssueCount, results.Duration.Milliseconds())

	if opts.failOnIssues && results.IssueCount > 0 {
		return fmt.Errorf("%w: %d", ErrIssuesFound, results.IssueCount)
	}
	return nil
}

// phasePrinter выводит события выполнения сенсоров (--verbose)
type phasePrinter struct {
	cli *Cli
}

func (p *phasePrinter) OnSensorsPhase(event analysis.SensorsPhaseEvent) {
	if event.Start {
		p.cli.io.Printf("Sensors: %s\n", strings.Join(event.Sensors, ", "))
	}
}

func (p *phasePrinter) OnSensorExecution(event analysis.SensorExecutionEvent) {
	if event.Start {
		p.cli.io.Printf("Sensor %s...\n", event.Sensor)
	}
}
