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

package operation

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/walteh/sortdir/pkg/category"
	"github.com/walteh/sortdir/pkg/journal"
	"github.com/walteh/sortdir/pkg/log"
	"github.com/walteh/sortdir/pkg/plan"
	"github.com/walteh/sortdir/pkg/stats"
	"github.com/walteh/sortdir/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// DefaultCheckpointEvery is how many moves pass between journal rewrites.
const DefaultCheckpointEvery = 25

var (
	// ErrInvalidRoot is returned when the target is missing or not a directory.
	ErrInvalidRoot = errors.New("invalid target directory")
	// ErrLocked is returned when another run holds the root.
	ErrLocked = errors.New("directory is locked by another run")
	// ErrNothingToUndo is returned by UndoLast when no journal exists.
	ErrNothingToUndo = errors.New("nothing to undo")
)

// 🎯 Operation is a unit of work the Runner executes
type Operation interface {
	// Name identifies the operation in logs
	Name() string
	// Execute runs the operation
	Execute(ctx context.Context) error
}

// 🔧 Options contains configuration for organize and undo runs
type Options struct {
	// Categories is the extension table. Defaults to category.Default().
	Categories *category.Map
	// FileManager performs every file system mutation. Defaults to status.New().
	FileManager status.FileManager
	// Ignore holds doublestar patterns excluded from planning.
	Ignore []string
	// JournalName is the journal file name inside root, or an absolute path.
	JournalName string
	// CheckpointEvery rewrites the journal after this many moves.
	CheckpointEvery int
	// DryRun plans and reports without touching the file system.
	DryRun bool
	// Logger receives file events. Defaults to a discarding logger.
	Logger *log.Logger
	// Progress, when set, is called after each planned file.
	Progress func(done, total int)
	// Now stamps journal entries. Defaults to time.Now.
	Now func() time.Time
	// NewRunID names a run. Defaults to a random UUID.
	NewRunID func() string
}

// 🏗️ BaseOperation holds the resolved options shared by every operation
type BaseOperation struct {
	Categories      *category.Map
	FileManager     status.FileManager
	Planner         *plan.Planner
	JournalName     string
	CheckpointEvery int
	DryRun          bool
	Logger          *log.Logger
	Progress        func(done, total int)
	Now             func() time.Time
	NewRunID        func() string
}

// 🏭 NewBaseOperation fills in defaults for unset options
func NewBaseOperation(opts Options) BaseOperation {
	b := BaseOperation{
		Categories:      opts.Categories,
		FileManager:     opts.FileManager,
		JournalName:     opts.JournalName,
		CheckpointEvery: opts.CheckpointEvery,
		DryRun:          opts.DryRun,
		Logger:          opts.Logger,
		Progress:        opts.Progress,
		Now:             opts.Now,
		NewRunID:        opts.NewRunID,
	}
	if b.Categories == nil {
		b.Categories = category.Default()
	}
	if b.FileManager == nil {
		b.FileManager = status.New()
	}
	if b.JournalName == "" {
		b.JournalName = journal.DefaultName
	}
	if b.CheckpointEvery <= 0 {
		b.CheckpointEvery = DefaultCheckpointEvery
	}
	if b.Logger == nil {
		b.Logger = log.Discard()
	}
	if b.Progress == nil {
		b.Progress = func(int, int) {}
	}
	if b.Now == nil {
		b.Now = time.Now
	}
	if b.NewRunID == nil {
		b.NewRunID = uuid.NewString
	}

	b.Planner = plan.New(b.Categories, opts.Ignore)
	b.Planner.JournalName = b.JournalName
	return b
}

// 🗂️ Organizer runs organize and undo against a root directory
type Organizer struct {
	BaseOperation
}

// 🏭 New creates an organizer with the given options
func New(opts Options) (*Organizer, error) {
	if opts.CheckpointEvery < 0 {
		return nil, errors.Errorf("checkpoint interval must not be negative, got %d", opts.CheckpointEvery)
	}
	if err := plan.ValidateIgnore(opts.Ignore); err != nil {
		return nil, errors.Errorf("validating ignore patterns: %w", err)
	}
	return &Organizer{BaseOperation: NewBaseOperation(opts)}, nil
}

// ❌ Failure is one file that could not be moved
type Failure struct {
	Path        string // Source file
	Destination string // Attempted destination, empty if none was chosen
	Err         error  // Cause
}

func (f Failure) Error() string {
	if f.Destination == "" {
		return fmt.Sprintf("%s: %v", f.Path, f.Err)
	}
	return fmt.Sprintf("%s -> %s: %v", f.Path, f.Destination, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// 📋 Report is the outcome of one organize run
type Report struct {
	RunID       string
	Root        string
	DryRun      bool
	Found       int               // Files the planner produced
	Statistics  *stats.Statistics // Files per category, in-place files included
	Moved       int               // Files physically moved, renamed ones included
	Renamed     int               // Moves that needed a collision-resolved name
	InPlace     int               // Files already at their destination
	Actions     []journal.Action  // Completed (or, on dry run, planned) moves
	Failures    []Failure
	JournalPath string
	JournalErr  error // Set when the final journal write failed
	Duration    time.Duration
}

// 📋 UndoReport is the outcome of one undo run
type UndoReport struct {
	RunID       string
	Root        string
	DryRun      bool
	Restored    int
	Skipped     int // Entries whose destination no longer exists
	Failures    []Failure
	RemovedDirs []string
	Warnings    []string
	JournalPath string
	Duration    time.Duration
}

func (b *BaseOperation) journalPath(root string) string {
	return journal.Path(root, b.JournalName)
}

// resolveRoot makes root absolute and checks it is an existing directory.
func (b *BaseOperation) resolveRoot(ctx context.Context, root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Errorf("%w: %s: %s", ErrInvalidRoot, root, err.Error())
	}

	info, err := b.FileManager.Stat(ctx, abs)
	if err != nil {
		return "", errors.Errorf("%w: %s: %s", ErrInvalidRoot, abs, err.Error())
	}
	if !info.IsDir() {
		return "", errors.Errorf("%w: %s is not a directory", ErrInvalidRoot, abs)
	}

	return abs, nil
}

// 📦 OrganizeOperation wraps Organize for the Runner
type OrganizeOperation struct {
	Organizer *Organizer
	Root      string
	Recursive bool
	Overwrite bool
	Report    *Report
}

func (op *OrganizeOperation) Name() string { return "organize" }

// 🏃 Execute runs Organize and keeps the report
func (op *OrganizeOperation) Execute(ctx context.Context) error {
	report, err := op.Organizer.Organize(ctx, op.Root, op.Recursive, op.Overwrite)
	op.Report = report
	return err
}

// ↩️ UndoOperation wraps UndoLast for the Runner
type UndoOperation struct {
	Organizer *Organizer
	Root      string
	Report    *UndoReport
}

func (op *UndoOperation) Name() string { return "undo" }

// 🏃 Execute runs UndoLast and keeps the report
func (op *UndoOperation) Execute(ctx context.Context) error {
	report, err := op.Organizer.UndoLast(ctx, op.Root)
	op.Report = report
	return err
}
