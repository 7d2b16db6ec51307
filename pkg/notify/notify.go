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

// Package notify tells the user a run has finished, through the desktop,
// an ntfy topic or the console.
package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔔 Message is one notification
type Message struct {
	Title   string
	Body    string
	Success bool
}

// 📣 Notifier delivers messages
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Options selects the notifiers built by New.
type Options struct {
	Disabled    bool          // No notifications at all
	Desktop     bool          // Native desktop notification
	NtfyTopic   string        // Full ntfy topic URL, empty to skip
	NtfyTimeout time.Duration // Request timeout, 10s when zero
	Console     io.Writer     // Fallback and console output, os.Stdout when nil
}

// 🏭 New builds the notifier described by opts
func New(opts Options) Notifier {
	if opts.Disabled {
		return Noop{}
	}

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	fallback := NewConsole(console)

	var out Multi
	if opts.Desktop {
		out = append(out, NewDesktop(fallback))
	}
	if topic := strings.TrimSpace(opts.NtfyTopic); topic != "" {
		out = append(out, NewNtfy(topic, opts.NtfyTimeout))
	}

	switch len(out) {
	case 0:
		return fallback
	case 1:
		return out[0]
	default:
		return out
	}
}

// Noop drops every message.
type Noop struct{}

func (Noop) Notify(context.Context, Message) error { return nil }

// 🔀 Multi sends each message to all notifiers concurrently and returns the
// first error after all have finished
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, msg Message) error {
	var g errgroup.Group
	for _, n := range m {
		g.Go(func() error {
			return n.Notify(ctx, msg)
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Errorf("notifying: %w", err)
	}
	return nil
}

// 📨 OrganizeDone reports a finished organize run.
func OrganizeDone(dir string, total int) Message {
	return Message{
		Title:   "Organization complete",
		Body:    fmt.Sprintf("Organized %d files in %s", total, filepath.Base(dir)),
		Success: true,
	}
}

// 📨 UndoDone reports a finished undo run.
func UndoDone(dir string, restored int) Message {
	return Message{
		Title:   "Organization undone",
		Body:    fmt.Sprintf("Restored %d files in %s", restored, filepath.Base(dir)),
		Success: true,
	}
}

// 📨 UndoFailed reports an undo that could not run.
func UndoFailed(err error) Message {
	return Message{
		Title: "Error",
		Body:  fmt.Sprintf("Could not undo the organization: %v", err),
	}
}

// 📨 Cancelled reports an interrupted run.
func Cancelled() Message {
	return Message{
		Title: "Operation cancelled",
		Body:  "The organization was interrupted",
	}
}

// 📨 Failed reports an unexpected error.
func Failed(err error) Message {
	return Message{
		Title: "Error",
		Body:  fmt.Sprintf("Error during organization: %v", err),
	}
}
