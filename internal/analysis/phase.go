package analysis

// SensorsPhaseEvent is sent before and after all sensors run
type SensorsPhaseEvent struct {
	Sensors []string
	Start   bool
}

// SensorExecutionEvent is sent before and after one sensor runs
type SensorExecutionEvent struct {
	Sensor string
	Start  bool
}

// PhaseHandler observes sensor execution
type PhaseHandler interface {
	OnSensorsPhase(event SensorsPhaseEvent)
	OnSensorExecution(event SensorExecutionEvent)
}
