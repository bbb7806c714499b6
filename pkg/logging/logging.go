package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

type Logger struct {
	out     io.Writer
	err     io.Writer
	quiet   bool
	verbose bool
}

type ctxKey struct{}

func DefaultLogger() Logger {
	return Logger{
		out: os.Stdout,
		err: os.Stderr,
	}
}

func NewLogger(out, err io.Writer, quiet, verbose bool) Logger {
	return Logger{
		out:     out,
		err:     err,
		quiet:   quiet,
		verbose: verbose,
	}
}

// Ctx returns the logger carried by the context, or the default logger
// if none was set.
func Ctx(ctx context.Context) Logger {
	l, ok := ctx.Value(ctxKey{}).(Logger)
	if !ok {
		return DefaultLogger()
	}
	return l
}

// WithContext returns a new context carrying this logger.
func (l Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// Out writes to the primary output stream, newline-terminated.
func (l Logger) Out(f string, args ...interface{}) {
	fmt.Fprintf(l.out, f+"\n", args...)
}

// OutRaw writes to the primary output stream with no framing at all.
func (l Logger) OutRaw(s string) {
	fmt.Fprintf(l.out, "%s", s)
}

func (l Logger) Info(tag string, f string, args ...interface{}) {
	if l.quiet {
		return
	}
	print(l.err, color.New(color.FgHiGreen), tag, f, args...)
}

func (l Logger) Debug(tag string, f string, args ...interface{}) {
	if l.verbose && !l.quiet {
		print(l.err, color.New(color.FgGreen), tag, f, args...)
	}
}

func print(w io.Writer, tagColor *color.Color, tag, f string, args ...interface{}) {
	str := fmt.Sprintf(f, args...)
	for _, line := range strings.Split(str, "\n") {
		fmt.Fprintf(w, "%s  %s\n",
			tagColor.Sprint(tag),
			color.WhiteString(line))
	}
}
