package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestCtxRoundTrip(t *testing.T) {
	out, errw := &bytes.Buffer{}, &bytes.Buffer{}
	logger := NewLogger(out, errw, false, false)
	ctx := logger.WithContext(context.Background())

	// output methods must be callable directly on the context lookup
	Ctx(ctx).Out("hello %s", "world")
	Ctx(ctx).OutRaw("raw")
	qt.Check(t, out.String(), qt.Equals, "hello world\nraw")
}

func TestDebugGating(t *testing.T) {
	t.Run("silent-by-default", func(t *testing.T) {
		out, errw := &bytes.Buffer{}, &bytes.Buffer{}
		logger := NewLogger(out, errw, false, false)
		logger.Debug("tag", "invisible")
		qt.Check(t, errw.String(), qt.Equals, "")
	})
	t.Run("verbose-enables", func(t *testing.T) {
		out, errw := &bytes.Buffer{}, &bytes.Buffer{}
		logger := NewLogger(out, errw, false, true)
		logger.Debug("tag", "visible")
		qt.Check(t, strings.Contains(errw.String(), "visible"), qt.IsTrue)
	})
	t.Run("quiet-wins", func(t *testing.T) {
		out, errw := &bytes.Buffer{}, &bytes.Buffer{}
		logger := NewLogger(out, errw, true, true)
		logger.Debug("tag", "invisible")
		logger.Info("tag", "invisible")
		qt.Check(t, errw.String(), qt.Equals, "")
	})
}
