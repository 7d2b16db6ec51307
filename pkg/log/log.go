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
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/sortdir/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent     = 4  // spaces to indent file entries
	nameWidth      = 35 // Base width for filename
	categoryWidth  = 22 // Width for category folder
	statusWidth    = 10 // Width for status text
	runHeaderColor = color.FgCyan
)

// 🎯 FileEvent is one file handled by an organize or undo run
type FileEvent struct {
	Source      string            // Where the file was
	Destination string            // Where it went (or was meant to go)
	Category    string            // Category folder, or the restore folder on undo
	Status      status.FileStatus // Outcome
	Err         error             // Cause when Status is StatusFailed
}

// 📦 RunInfo describes the run being logged
type RunInfo struct {
	Mode   string // organize, undo or watch
	Root   string // Target directory
	RunID  string // Identifier shared by the journal entries
	DryRun bool   // Whether the file system is left untouched
}

// 🎯 Logger writes human file lines to the console and mirrors them as
// zerolog events
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	run     *RunInfo
	events  []FileEvent
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// Discard returns a logger that prints nothing.
func Discard() *Logger {
	return New(io.Discard, zerolog.Nop())
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func symbolFor(s status.FileStatus) (rune, color.Attribute) {
	switch s {
	case status.StatusMoved:
		return '✓', color.FgGreen
	case status.StatusRenamed:
		return '⟳', color.FgBlue
	case status.StatusInPlace:
		return '•', color.FgCyan
	case status.StatusRestored:
		return '↺', color.FgGreen
	case status.StatusFailed:
		return '✗', color.FgRed
	default:
		return '-', color.FgYellow
	}
}

// 📝 formatFileEvent formats a file event for display
func (l *Logger) formatFileEvent(ev FileEvent) string {
	symbol, symbolColor := symbolFor(ev.Status)

	name := filepath.Base(ev.Source)
	target := ev.Category + "/"
	if ev.Status == status.StatusRenamed || (ev.Status == status.StatusRestored && ev.Destination != "" && filepath.Base(ev.Destination) != name) {
		target += filepath.Base(ev.Destination)
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, name),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", categoryWidth, target)),
		fmt.Sprintf("%-*s", statusWidth, ev.Status.String()))

	if ev.Err != nil {
		line += color.New(color.FgRed).Sprint(ev.Err.Error())
	}
	return line
}

// 📝 LogFileEvent logs a file event
func (l *Logger) LogFileEvent(ctx context.Context, ev FileEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, ev)

	fmt.Fprintln(l.console, l.formatFileEvent(ev))

	zev := l.zlog.Info()
	if ev.Status == status.StatusFailed {
		zev = l.zlog.Error().Err(ev.Err)
	}
	zev.
		Str("source", ev.Source).
		Str("destination", ev.Destination).
		Str("category", ev.Category).
		Str("status", ev.Status.String()).
		Msg("file event")
}

// 📝 StartRun starts logging a new run
func (l *Logger) StartRun(ctx context.Context, run RunInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.run = &run
	l.events = nil

	verb := run.Mode
	if run.DryRun {
		verb += " (dry run)"
	}

	fmt.Fprintf(l.console, "[%s %s]\n",
		verb,
		color.New(runHeaderColor).Sprint(run.Root))

	if run.RunID != "" {
		fmt.Fprintf(l.console, "%s %s %s %s\n",
			color.New(color.FgMagenta).Sprint("◆"),
			color.New(color.Bold).Sprint(filepath.Base(run.Root)),
			color.New(color.Faint).Sprint("•"),
			color.New(color.FgYellow).Sprint(run.RunID))
	}

	l.zlog.Info().
		Str("mode", run.Mode).
		Str("root", run.Root).
		Str("run_id", run.RunID).
		Bool("dry_run", run.DryRun).
		Msg("starting run")
}

// 📝 EndRun ends the current run, printing progress against total
func (l *Logger) EndRun(ctx context.Context, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.run == nil {
		return
	}

	failed := 0
	for _, ev := range l.events {
		if ev.Status == status.StatusFailed {
			failed++
		}
	}

	fmt.Fprintln(l.console, status.FormatProgress(len(l.events)-failed, total))

	l.zlog.Info().
		Str("mode", l.run.Mode).
		Str("root", l.run.Root).
		Int("files", len(l.events)).
		Int("failed", failed).
		Msg("run complete")

	l.run = nil
	l.events = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Raw writes pre-rendered text, such as a summary table
func (l *Logger) Raw(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.console, text)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("sortdir")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
