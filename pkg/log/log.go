// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent    = 4  // spaces to indent artifact entries
	pathWidth     = 40 // width for the package path
	kindWidth     = 12 // width for the file kind
	pathTypeWidth = 10 // width for the path type
	statusWidth   = 12 // width for status text
)

// 🎯 ArtifactOperation is one artifact line of console output
type ArtifactOperation struct {
	Path       string // package path, e.g. OEBPS/text/ch01.xhtml
	Kind       string // file kind (xhtml/template/stylesheet/...)
	PathType   string // manifest/spine/package
	Status     string // status text
	IsNew      bool   // the destination file did not exist
	IsModified bool   // the destination file changed
	IsRemoved  bool   // the destination file was removed
	IsSkipped  bool   // no processor handled the artifact
}

// 📦 BuildOperation describes one run over a source tree
type BuildOperation struct {
	Name        string // operation name (resolve/status/clean/build)
	Source      string // source root
	Destination string // destination root
	DryRun      bool   // resolution runs against an in-memory snapshot
}

// 🎯 Logger prints artifact operations to a console and mirrors them to zerolog
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	current    *BuildOperation
	operations []ArtifactOperation
}

// 🏭 New creates a logger printing to console
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return NewWithZerolog(console, zlog)
}

// NewWithZerolog creates a logger mirroring to an existing zerolog logger.
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// Discard returns a logger that prints nothing.
func Discard() *Logger {
	return NewWithZerolog(io.Discard, zerolog.Nop())
}

type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a discarding one
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return logger
	}
	return Discard()
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func (op ArtifactOperation) symbol() (rune, color.Attribute) {
	switch {
	case op.IsRemoved:
		return '✗', color.FgRed
	case op.IsNew:
		return '✓', color.FgGreen
	case op.IsModified:
		return '⟳', color.FgBlue
	case op.IsSkipped:
		return '-', color.FgYellow
	default:
		return '•', color.FgCyan
	}
}

func kindColor(kind string) color.Attribute {
	switch kind {
	case "generated":
		return color.FgMagenta
	case "template", "stylesheet":
		return color.FgBlue
	default:
		return color.FgCyan
	}
}

func (l *Logger) formatArtifactOperation(op ArtifactOperation) string {
	symbol, symbolColor := op.symbol()
	return fmt.Sprintf("%*s%s %-*s %s %-*s %-*s",
		fileIndent, "",
		color.New(symbolColor).Sprint(string(symbol)),
		pathWidth, op.Path,
		color.New(kindColor(op.Kind)).Sprintf("%-*s", kindWidth, op.Kind),
		pathTypeWidth, op.PathType,
		statusWidth, op.Status)
}

// 📝 LogArtifactOperation prints op and records it for the current build
func (l *Logger) LogArtifactOperation(ctx context.Context, op ArtifactOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)
	fmt.Fprintln(l.console, l.formatArtifactOperation(op))

	l.zlog.Info().
		Str("path", op.Path).
		Str("kind", op.Kind).
		Str("path_type", op.PathType).
		Str("status", op.Status).
		Bool("is_new", op.IsNew).
		Bool("is_modified", op.IsModified).
		Bool("is_removed", op.IsRemoved).
		Bool("is_skipped", op.IsSkipped).
		Msg("artifact operation")
}

// 📝 StartBuild prints the header of a build operation
func (l *Logger) StartBuild(ctx context.Context, op BuildOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &op
	l.operations = nil

	mode := ""
	if op.DryRun {
		mode = " " + color.New(color.Faint).Sprint("(dry run)")
	}
	fmt.Fprintf(l.console, "[%s %s]%s\n", op.Name, color.New(color.FgCyan).Sprint(op.Destination), mode)
	fmt.Fprintf(l.console, "%s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Source))

	l.zlog.Info().
		Str("operation", op.Name).
		Str("source", op.Source).
		Str("destination", op.Destination).
		Bool("dry_run", op.DryRun).
		Msg("starting build operation")
}

// 📝 EndBuild closes the current build operation and returns what it logged
func (l *Logger) EndBuild(ctx context.Context) []ArtifactOperation {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return nil
	}

	ops := l.operations
	var created, modified, removed int
	for _, op := range ops {
		switch {
		case op.IsRemoved:
			removed++
		case op.IsNew:
			created++
		case op.IsModified:
			modified++
		}
	}

	l.zlog.Info().
		Str("operation", l.current.Name).
		Int("artifacts", len(ops)).
		Int("new", created).
		Int("modified", modified).
		Int("removed", removed).
		Msg("build operation complete")

	l.current = nil
	l.operations = nil
	return ops
}

// 📝 LogNewline prints an empty line
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header prints a header line
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("bookpack")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...any) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Successf(format string, args ...any) {
	l.Success(fmt.Sprintf(format, args...))
}
