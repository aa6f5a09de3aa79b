package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"faultline/internal/model"
)

// maxFrames bounds how much of the backtrace participates in grouping.
// Deep traces differ in their outer frames (framework glue, goroutine
// trampolines) far more often than in the frames near the raise site.
const maxFrames = 10

// Compute derives the grouping key for a reported error.
//
// The key is a sha256 hex digest over the error type plus the file and
// function of up to the first ten backtrace frames. Line numbers are excluded
// so unrelated edits to a file do not split an existing group. An error
// without a backtrace falls back to type plus message.
func Compute(e model.ErrorInfo) string {
	h := sha256.New()
	io.WriteString(h, e.Type)
	io.WriteString(h, "\x00")

	if len(e.Backtrace) == 0 {
		io.WriteString(h, e.Message)
		return hex.EncodeToString(h.Sum(nil))
	}

	frames := e.Backtrace
	if len(frames) > maxFrames {
		frames = frames[:maxFrames]
	}
	for _, f := range frames {
		io.WriteString(h, f.File)
		io.WriteString(h, "\x00")
		io.WriteString(h, f.Function)
		io.WriteString(h, "\x00")
	}
	return hex.EncodeToString(h.Sum(nil))
}
