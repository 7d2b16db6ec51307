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
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/sortdir/pkg/journal"
	"github.com/walteh/sortdir/pkg/log"
	"github.com/walteh/sortdir/pkg/stats"
	"github.com/walteh/sortdir/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🗂️ Organize moves every planned file under root into its category folder.
//
// A missing or non-directory root is returned as ErrInvalidRoot before
// anything is touched. Per-file problems land in Report.Failures and the run
// goes on. The journal is rewritten after the first move, every
// CheckpointEvery moves and once at the end; a run that moves nothing leaves
// an existing journal alone. When ctx is cancelled the run stops before the
// next file, flushes the journal and returns ctx's error with the report.
func (o *Organizer) Organize(ctx context.Context, root string, recursive, overwrite bool) (*Report, error) {
	start := time.Now()
	logger := zerolog.Ctx(ctx)

	root, err := o.resolveRoot(ctx, root)
	if err != nil {
		return nil, err
	}

	if !o.DryRun {
		release, err := o.lockRoot(ctx, root)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	report := &Report{
		RunID:       o.NewRunID(),
		Root:        root,
		DryRun:      o.DryRun,
		Statistics:  stats.New(o.Categories.Names()),
		JournalPath: o.journalPath(root),
	}
	defer func() { report.Duration = time.Since(start) }()

	files, err := o.collect(ctx, root, recursive)
	if err != nil {
		if ctx.Err() != nil {
			return report, errors.WithStack(ctx.Err())
		}
		return nil, errors.Errorf("planning %s: %w", root, err)
	}
	report.Found = len(files)

	logger.Info().Str("root", root).Int("files", len(files)).Bool("recursive", recursive).Msg("found files to organize")

	o.Logger.StartRun(ctx, log.RunInfo{Mode: "organizing", Root: root, RunID: report.RunID, DryRun: o.DryRun})

	fm := o.FileManager
	if o.DryRun {
		fm = newClaimingFileManager(fm)
	}

	jrnl := journal.New()
	var cancelled error

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}

		moved := o.organizeFile(ctx, fm, root, path, overwrite, report, jrnl)
		if moved && !o.DryRun && (jrnl.Len() == 1 || jrnl.Len()%o.CheckpointEvery == 0) {
			if err := journal.Save(ctx, o.FileManager, report.JournalPath, jrnl); err != nil {
				logger.Warn().Err(err).Int("actions", jrnl.Len()).Msg("journal checkpoint failed")
			}
		}

		o.Progress(i+1, len(files))
	}

	report.Actions = jrnl.Actions()

	if !o.DryRun && jrnl.Len() > 0 {
		if err := journal.Save(ctx, o.FileManager, report.JournalPath, jrnl); err != nil {
			report.JournalErr = err
			o.Logger.Errorf("could not write journal, this run cannot be undone: %v", err)
		}
	}

	o.Logger.EndRun(ctx, len(files))

	if cancelled != nil {
		logger.Warn().Int("moved", report.Moved).Msg("organize cancelled")
		return report, errors.WithStack(cancelled)
	}

	return report, nil
}

// organizeFile handles one planned file and reports whether it was moved.
func (o *Organizer) organizeFile(ctx context.Context, fm status.FileManager, root, path string, overwrite bool, report *Report, jrnl *journal.Journal) bool {
	name := o.Categories.Classify(status.Ext(path))
	destDir := filepath.Join(root, name)

	fail := func(dst string, err error) bool {
		f := Failure{Path: path, Destination: dst, Err: err}
		report.Failures = append(report.Failures, f)
		o.Logger.LogFileEvent(ctx, log.FileEvent{Source: path, Destination: dst, Category: name, Status: status.StatusFailed, Err: err})
		return false
	}

	if !o.DryRun {
		if err := fm.CreateDir(ctx, destDir); err != nil {
			return fail("", errors.Errorf("creating category folder: %w", err))
		}
	}

	proposed := filepath.Join(destDir, filepath.Base(path))
	resolved := proposed
	if proposed != path {
		resolved = status.Resolve(ctx, fm, proposed, overwrite)
	}

	if resolved == path {
		report.InPlace++
		report.Statistics.Add(name)
		o.Logger.LogFileEvent(ctx, log.FileEvent{Source: path, Destination: resolved, Category: name, Status: status.StatusInPlace})
		return false
	}

	if err := fm.MoveFile(ctx, path, resolved); err != nil {
		return fail(resolved, errors.Errorf("moving file: %w", err))
	}

	jrnl.Append(journal.NewMove(report.RunID, path, resolved, o.Now()))
	report.Moved++
	report.Statistics.Add(name)

	st := status.StatusMoved
	if resolved != proposed {
		st = status.StatusRenamed
		report.Renamed++
	}
	o.Logger.LogFileEvent(ctx, log.FileEvent{Source: path, Destination: resolved, Category: name, Status: st})

	return true
}

// collect materializes the plan so the total is known up front.
func (o *Organizer) collect(ctx context.Context, root string, recursive bool) ([]string, error) {
	var files []string
	for path, err := range o.Planner.Plan(ctx, root, recursive) {
		if err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	return files, nil
}
