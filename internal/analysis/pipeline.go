package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Pipeline runs one analysis: resolves input files, then executes the sensors
type Pipeline struct {
	rules    ActiveRules
	logger   *slog.Logger
	sensors  []Sensor
	handlers []PhaseHandler
}

// NewPipeline creates a pipeline over the given sensors and active rules
func NewPipeline(sensors []Sensor, rules ActiveRules, logger *slog.Logger, handlers ...PhaseHandler) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{sensors: sensors, rules: rules, logger: logger, handlers: handlers}
}

// Run analyzes the files of cfg and hands every issue to listener
func (p *Pipeline) Run(ctx context.Context, cfg Config, listener IssueListener) (*Results, error) {
	started := time.Now()
	results := &Results{ID: uuid.New()}

	files, err := ResolveInputFiles(ctx, cfg)
	if err != nil {
		return nil, err
	}
	results.FileCount = len(files)

	sc := NewSensorContext(files, p.rules, cfg.Properties, func(issue Issue) {
		results.IssueCount++
		if listener != nil {
			listener(issue)
		}
	})

	executor := NewSensorsExecutor(p.sensors, p.handlers, p.logger)
	if err := executor.Execute(ctx, sc); err != nil {
		return nil, err
	}

	results.Duration = time.Since(started)
	p.logger.Debug("Analysis done", "analysis_id", results.ID.String(), "files", results.FileCount,
		"issues", results.IssueCount, "duration_ms", results.Duration.Milliseconds())
	return results, nil
}
