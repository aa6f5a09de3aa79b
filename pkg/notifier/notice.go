package notifier

import (
	"fmt"
	"runtime"
	"strings"
)

// Frame is one entry in an error backtrace.
type Frame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
}

// Error describes a single error inside a notice. The first error in a
// notice is the primary one; the rest are nested causes.
type Error struct {
	Type      string  `json:"type"`
	Message   string  `json:"message"`
	Backtrace []Frame `json:"backtrace"`
}

// Notice is the wire format accepted by the v3 ingestion endpoint.
type Notice struct {
	ID string `json:"id,omitempty"`

	Errors      []Error        `json:"errors"`
	Context     map[string]any `json:"context"`
	Environment map[string]any `json:"environment"`
	Session     map[string]any `json:"session"`
	Params      map[string]any `json:"params"`
}

// SetSeverity records the notice severity in its context map. The map is
// initialized lazily so the method also works on a zero-value Notice.
func (n *Notice) SetSeverity(severity string) {
	if n.Context == nil {
		n.Context = make(map[string]any)
	}
	n.Context["severity"] = severity
}

func (n *Notice) String() string {
	if len(n.Errors) == 0 {
		return "Notice<no errors>"
	}
	e := n.Errors[0]
	return fmt.Sprintf("Notice<%s: %s>", e.Type, e.Message)
}

// NewNotice builds a notice for err, capturing the current goroutine's
// backtrace. skip controls how many stack frames above NewNotice are
// dropped, so wrappers can hide themselves.
func (n *Notifier) NewNotice(err any, skip int) *Notice {
	notice := &Notice{
		Errors: []Error{{
			Type:      errorType(err),
			Message:   errorMessage(err),
			Backtrace: backtrace(skip + 3),
		}},
		Context:     map[string]any{},
		Environment: map[string]any{},
		Session:     map[string]any{},
		Params:      map[string]any{},
	}
	for k, v := range n.opt.DefaultContext {
		notice.Context[k] = v
	}
	notice.Context["notifier"] = map[string]any{
		"name":    notifierName,
		"version": notifierVersion,
	}
	return notice
}

func errorType(err any) string {
	switch e := err.(type) {
	case error:
		return fmt.Sprintf("%T", e)
	case string:
		return "string"
	default:
		return fmt.Sprintf("%T", err)
	}
}

func errorMessage(err any) string {
	switch e := err.(type) {
	case error:
		return e.Error()
	case string:
		return e
	default:
		return fmt.Sprint(err)
	}
}

const maxBacktraceDepth = 32

// backtrace captures the calling goroutine's stack, skipping runtime
// internals and the given number of leading frames.
func backtrace(skip int) []Frame {
	var pcs [maxBacktraceDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	var out []Frame
	for {
		fr, more := frames.Next()
		if !strings.HasPrefix(fr.Function, "runtime.") {
			out = append(out, Frame{
				File:     fr.File,
				Line:     fr.Line,
				Function: fr.Function,
			})
		}
		if !more {
			break
		}
	}
	return out
}
