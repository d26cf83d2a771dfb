package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SensorsExecutor runs sensors in registration order
type SensorsExecutor struct {
	logger   *slog.Logger
	sensors  []Sensor
	handlers []PhaseHandler
}

// NewSensorsExecutor creates an executor
func NewSensorsExecutor(sensors []Sensor, handlers []PhaseHandler, logger *slog.Logger) *SensorsExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &SensorsExecutor{sensors: sensors, handlers: handlers, logger: logger}
}

// Execute notifies the start of the sensors phase, runs each sensor whose rules are active,
// then notifies the end. The first sensor error stops the phase; the end event is still sent.
func (e *SensorsExecutor) Execute(ctx context.Context, sc *SensorContext) error {
	var toRun []Sensor
	for _, s := range e.sensors {
		d := s.Describe()
		if !shouldExecute(d, sc.rules) {
			e.logger.Debug("Sensor skipped, no active rules", "sensor", d.Name)
			continue
		}
		toRun = append(toRun, s)
	}

	names := make([]string, len(toRun))
	for i, s := range toRun {
		names[i] = s.Describe().Name
	}

	e.notifyPhase(SensorsPhaseEvent{Sensors: names, Start: true})
	defer e.notifyPhase(SensorsPhaseEvent{Sensors: names, Start: false})

	for _, s := range toRun {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := s.Describe().Name

		e.notifyExecution(SensorExecutionEvent{Sensor: name, Start: true})
		started := time.Now()
		err := s.Execute(ctx, sc)
		e.notifyExecution(SensorExecutionEvent{Sensor: name, Start: false})
		if err != nil {
			return fmt.Errorf("sensor %s failed: %w", name, err)
		}
		e.logger.Debug("Sensor executed", "sensor", name, "duration_ms", time.Since(started).Milliseconds())
	}
	return nil
}

func (e *SensorsExecutor) notifyPhase(event SensorsPhaseEvent) {
	for _, h := range e.handlers {
		h.OnSensorsPhase(event)
	}
}

func (e *SensorsExecutor) notifyExecution(event SensorExecutionEvent) {
	for _, h := range e.handlers {
		h.OnSensorExecution(event)
	}
}
