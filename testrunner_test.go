package canopy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTestScript(t *testing.T) {
	data := []byte(`
steps:
  - action: mark
    label: initial
  - action: click
    x: 100
    y: 200
  - action: wait
    frames: 3
  - action: drag
    fromX: 1
    fromY: 2
    toX: 3
    toY: 4
    frames: 5
`)
	runner, err := LoadTestScript(data)
	require.NoError(t, err)
	require.Len(t, runner.steps, 4)
	assert.Equal(t, testStep{Action: "mark", Label: "initial"}, runner.steps[0])
	assert.Equal(t, testStep{Action: "click", X: 100, Y: 200}, runner.steps[1])
	assert.Equal(t, 3, runner.steps[2].Frames)
	assert.Equal(t, testStep{Action: "drag", FromX: 1, FromY: 2, ToX: 3, ToY: 4, Frames: 5}, runner.steps[3])
}

func TestLoadTestScript_JSON(t *testing.T) {
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "key", "key": 7}]}`))
	require.NoError(t, err)
	assert.Equal(t, 7, runner.steps[0].Key)
}

func TestLoadTestScript_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `steps: [`},
		{"empty", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "screenshot"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestRunner_ClickWaitsForQueue(t *testing.T) {
	m := newTestManager(200, 200)
	clicks := 0
	box(m, "btn", 0, 0, 100, 100, Listeners{Click: &ClickFuncs{LeftClick: func(ClickContext) { clicks++ }}})

	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "click", "x": 50, "y": 50}]}`))
	require.NoError(t, err)
	m.SetTestRunner(runner)

	m.Update(0)
	assert.Equal(t, 1, clicks, "queued and pressed in the same frame")
	assert.False(t, runner.Done(), "release still pending")

	m.Update(0)
	assert.Zero(t, m.PendingInput())
	m.Update(0)
	assert.True(t, runner.Done())
}

func TestRunner_WaitAndMarks(t *testing.T) {
	m := newTestManager(100, 100)
	runner, err := LoadTestScript([]byte(`
steps:
  - action: mark
    label: a
  - action: wait
    frames: 2
  - action: mark
    label: b
`))
	require.NoError(t, err)
	m.SetTestRunner(runner)

	m.Update(0)
	assert.Equal(t, []string{"a"}, runner.Marks())
	m.Update(0) // wait, first frame
	m.Update(0) // wait, second frame
	assert.Equal(t, []string{"a"}, runner.Marks())
	m.Update(0)
	assert.Equal(t, []string{"a", "b"}, runner.Marks())
	assert.True(t, runner.Done())

	m.Update(0)
	assert.Equal(t, []string{"a", "b"}, runner.Marks())
}

func TestRunner_DragScript(t *testing.T) {
	m := newTestManager(200, 200)
	rec := &dragRecorder{}
	box(m, "handle", 0, 0, 50, 50, rec.listeners())

	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "drag", "fromX": 10, "fromY": 10, "toX": 60, "toY": 10, "frames": 3}]}`))
	require.NoError(t, err)
	m.SetTestRunner(runner)
	for range 5 {
		m.Update(0)
	}
	assert.True(t, runner.Done())
	assert.InDelta(t, 50, rec.total, 1e-9)
}
