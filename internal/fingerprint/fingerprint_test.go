package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"faultline/internal/model"
)

func frames(n int) []model.StackFrame {
	fs := make([]model.StackFrame, n)
	for i := range fs {
		fs[i] = model.StackFrame{File: "app/handler.go", Line: 10 + i, Function: "handle"}
	}
	return fs
}

func TestComputeDeterministic(t *testing.T) {
	e := model.ErrorInfo{
		Type:    "RuntimeError",
		Message: "boom",
		Backtrace: []model.StackFrame{
			{File: "app/server.go", Line: 42, Function: "serve"},
			{File: "app/main.go", Line: 7, Function: "main"},
		},
	}
	assert.Equal(t, Compute(e), Compute(e))
}

func TestComputeIgnoresLineNumbers(t *testing.T) {
	a := model.ErrorInfo{
		Type:      "RuntimeError",
		Backtrace: []model.StackFrame{{File: "app/server.go", Line: 42, Function: "serve"}},
	}
	b := model.ErrorInfo{
		Type:      "RuntimeError",
		Backtrace: []model.StackFrame{{File: "app/server.go", Line: 99, Function: "serve"}},
	}
	assert.Equal(t, Compute(a), Compute(b))
}

func TestComputeDistinguishesTypeAndPath(t *testing.T) {
	base := model.ErrorInfo{
		Type:      "RuntimeError",
		Backtrace: []model.StackFrame{{File: "app/server.go", Function: "serve"}},
	}

	otherType := base
	otherType.Type = "ArgumentError"
	assert.NotEqual(t, Compute(base), Compute(otherType))

	otherPath := base
	otherPath.Backtrace = []model.StackFrame{{File: "app/worker.go", Function: "serve"}}
	assert.NotEqual(t, Compute(base), Compute(otherPath))
}

func TestComputeCapsFrames(t *testing.T) {
	a := model.ErrorInfo{Type: "E", Backtrace: frames(10)}
	b := model.ErrorInfo{Type: "E", Backtrace: append(frames(10), model.StackFrame{File: "deep.go", Function: "outer"})}

	// Frames beyond the cap do not affect the key.
	assert.Equal(t, Compute(a), Compute(b))
}

func TestComputeEmptyBacktraceFallsBackToMessage(t *testing.T) {
	a := model.ErrorInfo{Type: "E", Message: "connection refused"}
	b := model.ErrorInfo{Type: "E", Message: "connection reset"}
	assert.NotEqual(t, Compute(a), Compute(b))
	assert.Equal(t, Compute(a), Compute(model.ErrorInfo{Type: "E", Message: "connection refused"}))
}
