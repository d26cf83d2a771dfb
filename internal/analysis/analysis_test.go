package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticRules активные правила для тестов: key -> severity
type staticRules map[string]string

func (r staticRules) IsActive(ruleKey string) bool {
	_, ok := r[ruleKey]
	return ok
}

func (r staticRules) Severity(ruleKey string) string {
	return r[ruleKey]
}

// recordingHandler записывает события в порядке получения
type recordingHandler struct {
	events []string
}

func (h *recordingHandler) OnSensorsPhase(e SensorsPhaseEvent) {
	if e.Start {
		h.events = append(h.events, "phase start "+strings.Join(e.Sensors, ","))
		return
	}
	h.events = append(h.events, "phase end")
}

func (h *recordingHandler) OnSensorExecution(e SensorExecutionEvent) {
	if e.Start {
		h.events = append(h.events, "start "+e.Sensor)
		return
	}
	h.events = append(h.events, "end "+e.Sensor)
}

type fakeSensor struct {
	err     error
	name    string
	rules   []string
	handler *recordingHandler
}

func (s fakeSensor) Describe() SensorDescriptor {
	return SensorDescriptor{Name: s.name, RuleKeys: s.rules}
}

func (s fakeSensor) Execute(ctx context.Context, sc *SensorContext) error {
	s.handler.events = append(s.handler.events, "execute "+s.name)
	return s.err
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestSensorsExecutor_Order(t *testing.T) {
	h := &recordingHandler{}
	sensors := []Sensor{
		fakeSensor{name: "first", handler: h},
		fakeSensor{name: "second", handler: h},
	}

	e := NewSensorsExecutor(sensors, []PhaseHandler{h}, nil)
	require.NoError(t, e.Execute(context.Background(), NewSensorContext(nil, staticRules{}, nil, func(Issue) {})))

	assert.Equal(t, []string{
		"phase start first,second",
		"start first", "execute first", "end first",
		"start second", "execute second", "end second",
		"phase end",
	}, h.events)
}

func TestSensorsExecutor_SkipsSensorsWithoutActiveRules(t *testing.T) {
	h := &recordingHandler{}
	sensors := []Sensor{
		fakeSensor{name: "inactive", rules: []string{"x:1"}, handler: h},
		fakeSensor{name: "active", rules: []string{"x:1", "x:2"}, handler: h},
	}

	e := NewSensorsExecutor(sensors, []PhaseHandler{h}, nil)
	require.NoError(t, e.Execute(context.Background(), NewSensorContext(nil, staticRules{"x:2": "MAJOR"}, nil, func(Issue) {})))

	assert.Equal(t, []string{
		"phase start active",
		"start active", "execute active", "end active",
		"phase end",
	}, h.events)
}

func TestSensorsExecutor_ErrorStopsPhase(t *testing.T) {
	h := &recordingHandler{}
	boom := errors.New("boom")
	sensors := []Sensor{
		fakeSensor{name: "failing", err: boom, handler: h},
		fakeSensor{name: "never", handler: h},
	}

	e := NewSensorsExecutor(sensors, []PhaseHandler{h}, nil)
	err := e.Execute(context.Background(), NewSensorContext(nil, staticRules{}, nil, func(Issue) {}))
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, []string{
		"phase start failing,never",
		"start failing", "execute failing", "end failing",
		"phase end",
	}, h.events)
}

func TestSensorContext_ReportFiltersInactive(t *testing.T) {
	var got []Issue
	sc := NewSensorContext(nil, staticRules{"a:1": "BLOCKER"}, nil, func(i Issue) { got = append(got, i) })

	sc.Report(Issue{RuleKey: "a:1", Message: "kept"})
	sc.Report(Issue{RuleKey: "a:2", Message: "dropped"})

	require.Len(t, got, 1)
	assert.Equal(t, "BLOCKER", got[0].Severity)
}

func TestTextSensors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/a.txt", "short\n"+strings.Repeat("x", 121)+"\n// TODO fix\n")
	writeFile(t, dir, "b.txt", "nothing here\n")

	var issues []Issue
	p := NewPipeline(TextSensors(), staticRules{RuleLineLength: "MAJOR", RuleTodoComment: "INFO"}, nil)
	results, err := p.Run(context.Background(), Config{BaseDir: dir}, func(i Issue) { issues = append(issues, i) })
	require.NoError(t, err)

	assert.Equal(t, 2, results.FileCount)
	assert.Equal(t, 2, results.IssueCount)
	assert.NotEmpty(t, results.ID.String())

	require.Len(t, issues, 2)
	assert.Equal(t, Issue{
		RuleKey:  RuleLineLength,
		Severity: "MAJOR",
		File:     "src/a.txt",
		Line:     2,
		Message:  "Split this 121 characters long line (which is greater than 120 authorized).",
	}, issues[0])
	assert.Equal(t, RuleTodoComment, issues[1].RuleKey)
	assert.Equal(t, 3, issues[1].Line)
}

func TestTextSensors_OnlyActiveRulesRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", strings.Repeat("y", 200)+" TODO\n")

	var issues []Issue
	p := NewPipeline(TextSensors(), staticRules{RuleTodoComment: "INFO"}, nil)
	_, err := p.Run(context.Background(), Config{BaseDir: dir}, func(i Issue) { issues = append(issues, i) })
	require.NoError(t, err)

	require.Len(t, issues, 1)
	assert.Equal(t, RuleTodoComment, issues[0].RuleKey)
}

func TestLineLengthSensor_Property(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "123456\n")

	rules := staticRules{RuleLineLength: "MAJOR"}
	cfg := Config{BaseDir: dir, Properties: map[string]string{PropertyMaxLineLength: "5"}}
	results, err := NewPipeline(TextSensors(), rules, nil).Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, results.IssueCount)

	cfg.Properties[PropertyMaxLineLength] = "zero"
	_, err = NewPipeline(TextSensors(), rules, nil).Run(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestResolveInputFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "a")
	writeFile(t, dir, "sub/b.txt", "b")
	writeFile(t, dir, ".git/config", "hidden")

	files, err := ResolveInputFiles(context.Background(), Config{BaseDir: dir})
	require.NoError(t, err)
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	assert.Equal(t, []string{"a.txt", "sub/b.txt"}, paths)

	files, err = ResolveInputFiles(context.Background(), Config{BaseDir: dir, InputFiles: []string{"sub/b.txt"}})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "sub", "b.txt"), files[0].AbsPath)
}

func TestResolveInputFiles_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sub/b.txt", "b")

	for _, p := range []string{"../escape.txt", "missing.txt", "sub"} {
		t.Run(p, func(t *testing.T) {
			_, err := ResolveInputFiles(context.Background(), Config{BaseDir: dir, InputFiles: []string{p}})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRegistry_Activate(t *testing.T) {
	r := DefaultRegistry()
	r.Register("java", func() []Sensor { return []Sensor{fakeSensor{name: "java"}} })

	assert.Equal(t, []string{"java", "text"}, r.Plugins())

	sensors := r.Activate(func(key string) bool { return key == TextPluginKey })
	require.Len(t, sensors, 2)
	assert.Equal(t, "Line length", sensors[0].Describe().Name)

	assert.Empty(t, r.Activate(func(string) bool { return false }))
}
