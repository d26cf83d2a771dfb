package analysis

import (
	"context"
	"slices"
)

// SensorDescriptor describes what a sensor needs to run
type SensorDescriptor struct {
	Name string
	// RuleKeys are the rules the sensor can raise; it is skipped when none is active
	RuleKeys []string
}

// Sensor analyzes input files and reports issues through the SensorContext
type Sensor interface {
	Describe() SensorDescriptor
	Execute(ctx context.Context, sc *SensorContext) error
}

// SensorContext is what a running sensor sees
type SensorContext struct {
	rules      ActiveRules
	report     func(Issue)
	properties map[string]string
	files      []InputFile
}

// NewSensorContext creates a sensor context
func NewSensorContext(files []InputFile, rules ActiveRules, properties map[string]string, report func(Issue)) *SensorContext {
	return &SensorContext{files: files, rules: rules, properties: properties, report: report}
}

// Files returns the input files
func (sc *SensorContext) Files() []InputFile {
	return sc.files
}

// IsActive reports whether a rule is enabled
func (sc *SensorContext) IsActive(ruleKey string) bool {
	return sc.rules.IsActive(ruleKey)
}

// Property returns an analysis property
func (sc *SensorContext) Property(key string) (string, bool) {
	v, ok := sc.properties[key]
	return v, ok
}

// Report reports an issue of an active rule; issues of inactive rules are dropped
func (sc *SensorContext) Report(issue Issue) {
	if !sc.rules.IsActive(issue.RuleKey) {
		return
	}
	if issue.Severity == "" {
		issue.Severity = sc.rules.Severity(issue.RuleKey)
	}
	sc.report(issue)
}

// shouldExecute пропускает сенсор, если ни одно из его правил не активно
func shouldExecute(d SensorDescriptor, rules ActiveRules) bool {
	if len(d.RuleKeys) == 0 {
		return true
	}
	return slices.ContainsFunc(d.RuleKeys, rules.IsActive)
}
