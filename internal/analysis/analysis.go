// Package analysis runs sensors over input files and reports issues.
//
// It only knows about rules through ActiveRules; where rules come from
// (synchronized storage, defaults) is decided by the caller.
package analysis

import (
	"time"

	"github.com/google/uuid"
)

// Config describes one analysis request
type Config struct {
	// Properties are free-form analysis properties, e.g. "text.maxLineLength"
	Properties map[string]string
	// BaseDir is the directory InputFiles are relative to
	BaseDir string
	// ModuleKey is the server module the files belong to; empty for a standalone analysis
	ModuleKey string
	// InputFiles are paths relative to BaseDir. Empty means every regular file under BaseDir.
	InputFiles []string
}

// Issue is a problem reported by a sensor
type Issue struct {
	RuleKey  string
	Severity string
	Message  string
	File     string // путь относительно BaseDir
	Line     int    // с 1; 0 - замечание на весь файл
}

// IssueListener receives issues as soon as they are reported
type IssueListener func(Issue)

// Results summarizes a finished analysis
type Results struct {
	ID         uuid.UUID
	FileCount  int
	IssueCount int
	Duration   time.Duration
}

// ActiveRules tells sensors which rules are enabled and with which severity
type ActiveRules interface {
	IsActive(ruleKey string) bool
	// Severity returns the configured severity of an active rule
	Severity(ruleKey string) string
}
