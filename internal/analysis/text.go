package analysis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Встроенный плагин "text"
const (
	TextPluginKey = "text"

	RuleLineLength  = "text:LineLength"
	RuleTodoComment = "text:TodoComment"

	// PropertyMaxLineLength overrides DefaultMaxLineLength
	PropertyMaxLineLength = "text.maxLineLength"
	DefaultMaxLineLength  = 120
)

// TextSensors returns the sensors of the text plugin
func TextSensors() []Sensor {
	return []Sensor{LineLengthSensor{}, TodoSensor{}}
}

// LineLengthSensor reports lines longer than the configured maximum
type LineLengthSensor struct{}

// Describe implements Sensor
func (LineLengthSensor) Describe() SensorDescriptor {
	return SensorDescriptor{Name: "Line length", RuleKeys: []string{RuleLineLength}}
}

// Execute implements Sensor
func (LineLengthSensor) Execute(ctx context.Context, sc *SensorContext) error {
	limit := DefaultMaxLineLength
	if v, ok := sc.Property(PropertyMaxLineLength); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid %s: %q", PropertyMaxLineLength, v)
		}
		limit = n
	}

	for _, f := range sc.Files() {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := f.Lines(func(n int, line string) bool {
			if length := utf8.RuneCountInString(line); length > limit {
				sc.Report(Issue{
					RuleKey: RuleLineLength,
					File:    f.Path,
					Line:    n,
					Message: fmt.Sprintf("Split this %d characters long line (which is greater than %d authorized).", length, limit),
				})
			}
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// TodoSensor reports TODO comments
type TodoSensor struct{}

// Describe implements Sensor
func (TodoSensor) Describe() SensorDescriptor {
	return SensorDescriptor{Name: "TODO comments", RuleKeys: []string{RuleTodoComment}}
}

// Execute implements Sensor
func (TodoSensor) Execute(ctx context.Context, sc *SensorContext) error {
	for _, f := range sc.Files() {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := f.Lines(func(n int, line string) bool {
			if strings.Contains(line, "TODO") {
				sc.Report(Issue{
					RuleKey: RuleTodoComment,
					File:    f.Path,
					Line:    n,
					Message: "Complete the task associated to this TODO comment.",
				})
			}
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}
