package canopy

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	FromX  float64 `yaml:"fromX,omitempty"`
	FromY  float64 `yaml:"fromY,omitempty"`
	ToX    float64 `yaml:"toX,omitempty"`
	ToY    float64 `yaml:"toY,omitempty"`
	DX     float64 `yaml:"dx,omitempty"`
	DY     float64 `yaml:"dy,omitempty"`
	Key    int     `yaml:"key,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
}

// testScript is the top-level structure for a test script.
type testScript struct {
	Steps []testStep `yaml:"steps"`
}

var knownActions = map[string]bool{
	"click": true, "rightclick": true, "press": true, "move": true, "release": true,
	"drag": true, "wheel": true, "key": true, "wait": true, "mark": true,
}

// TestRunner sequences injected input events across frames for automated
// interaction testing. Attach to a Manager via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	marks     []string
}

// LoadTestScript parses a test script (YAML, or JSON which is valid YAML) and
// returns a TestRunner ready to be attached via SetTestRunner.
func LoadTestScript(data []byte) (*TestRunner, error) {
	var script testScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the manager. The runner's step
// method is called from Manager.Update before injected input is processed.
func (m *Manager) SetTestRunner(runner *TestRunner) {
	m.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Marks returns the labels of the "mark" steps reached so far.
func (r *TestRunner) Marks() []string {
	return r.marks
}

// step advances the test runner by one frame. Called from Manager.Update.
func (r *TestRunner) step(m *Manager) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(m.injectQueue) > 0 {
		return
	}
	// Count down wait frames.
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "mark":
		r.marks = append(r.marks, st.Label)
		m.logger.Info("test script mark", zap.String("label", st.Label), zap.Uint64("frame", m.frame))
	case "click":
		m.InjectClick(st.X, st.Y)
	case "rightclick":
		m.InjectRightClick(st.X, st.Y)
	case "press":
		m.InjectPress(st.X, st.Y)
	case "move":
		m.InjectMove(st.X, st.Y)
	case "release":
		m.InjectRelease(st.X, st.Y)
	case "drag":
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		m.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, frames)
	case "wheel":
		m.InjectWheel(st.X, st.Y, st.DX, st.DY)
	case "key":
		m.InjectKey(Key(st.Key), 0)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	// Check if we've reached the end after executing.
	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(m.injectQueue) == 0 {
		r.done = true
	}
}
