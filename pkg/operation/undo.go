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
	"github.com/walteh/sortdir/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ↩️ UndoLast reverses the moves recorded by the last organize run of root.
//
// It fails with ErrNothingToUndo when there is no journal and with
// journal.ErrCorrupt when the journal cannot be read; in both cases nothing
// is touched. Otherwise moves are replayed last-first. Entries whose file is
// gone are skipped. When the original folder no longer exists the file goes
// back to root instead. Restores never overwrite: an occupied origin gets a
// collision-resolved name. Afterwards empty category folders and the journal
// are removed. A journal that cannot be removed is only a warning.
func (o *Organizer) UndoLast(ctx context.Context, root string) (*UndoReport, error) {
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

	report := &UndoReport{
		Root:        root,
		DryRun:      o.DryRun,
		JournalPath: o.journalPath(root),
	}
	defer func() { report.Duration = time.Since(start) }()

	jrnl, err := journal.Load(ctx, o.FileManager, report.JournalPath)
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			return nil, errors.Errorf("%w: no journal at %s", ErrNothingToUndo, report.JournalPath)
		}
		return nil, err
	}

	actions := jrnl.Reversed()
	if len(actions) > 0 {
		report.RunID = actions[0].RunID
	}

	o.Logger.StartRun(ctx, log.RunInfo{Mode: "undoing", Root: root, RunID: report.RunID, DryRun: o.DryRun})

	fm := o.FileManager
	if o.DryRun {
		fm = newClaimingFileManager(fm)
	}

	for i, a := range actions {
		if err := ctx.Err(); err != nil {
			o.Logger.EndRun(ctx, len(actions))
			logger.Warn().Int("restored", report.Restored).Msg("undo cancelled, journal kept")
			return report, errors.WithStack(err)
		}

		o.undoAction(ctx, fm, root, a, report)
		o.Progress(i+1, len(actions))
	}

	o.Logger.EndRun(ctx, len(actions))

	if o.DryRun {
		return report, nil
	}

	o.removeEmptyCategoryDirs(ctx, root, report)

	if err := journal.Remove(ctx, o.FileManager, report.JournalPath); err != nil {
		report.Warnings = append(report.Warnings, err.Error())
		logger.Warn().Err(err).Msg("journal not removed")
	}

	return report, nil
}

func (o *Organizer) undoAction(ctx context.Context, fm status.FileManager, root string, a journal.Action, report *UndoReport) {
	exists, err := fm.FileExists(ctx, a.Destination)
	if err != nil {
		o.undoFailed(ctx, a, "", errors.Errorf("checking moved file: %w", err), report)
		return
	}
	if !exists {
		report.Skipped++
		o.Logger.LogFileEvent(ctx, log.FileEvent{Source: a.Destination, Category: filepath.Base(filepath.Dir(a.Origin)), Status: status.StatusSkipped})
		return
	}

	target := a.Origin
	if !o.isDir(ctx, filepath.Dir(a.Origin)) {
		target = filepath.Join(root, filepath.Base(a.Origin))
	}
	target = status.Resolve(ctx, fm, target, false)

	if err := fm.MoveFile(ctx, a.Destination, target); err != nil {
		o.undoFailed(ctx, a, target, errors.Errorf("restoring file: %w", err), report)
		return
	}

	report.Restored++
	o.Logger.LogFileEvent(ctx, log.FileEvent{
		Source:      a.Destination,
		Destination: target,
		Category:    filepath.Base(filepath.Dir(target)),
		Status:      status.StatusRestored,
	})
}

func (o *Organizer) undoFailed(ctx context.Context, a journal.Action, target string, err error, report *UndoReport) {
	report.Failures = append(report.Failures, Failure{Path: a.Destination, Destination: target, Err: err})
	o.Logger.LogFileEvent(ctx, log.FileEvent{
		Source:      a.Destination,
		Destination: target,
		Category:    filepath.Base(filepath.Dir(a.Origin)),
		Status:      status.StatusFailed,
		Err:         err,
	})
}

func (o *Organizer) isDir(ctx context.Context, path string) bool {
	info, err := o.FileManager.Stat(ctx, path)
	return err == nil && info.IsDir()
}

// removeEmptyCategoryDirs deletes category folders of root left empty.
// Failures are logged and otherwise ignored.
func (o *Organizer) removeEmptyCategoryDirs(ctx context.Context, root string, report *UndoReport) {
	logger := zerolog.Ctx(ctx)

	for _, name := range o.Categories.Names() {
		dir := filepath.Join(root, name)
		entries, err := o.FileManager.ReadDir(ctx, dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := o.FileManager.RemoveDir(ctx, dir); err != nil {
			logger.Debug().Err(err).Str("dir", dir).Msg("keeping category folder")
			continue
		}
		report.RemovedDirs = append(report.RemovedDirs, dir)
	}
}
