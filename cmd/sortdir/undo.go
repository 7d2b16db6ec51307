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


package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/sortdir/pkg/notify"
	"github.com/walteh/sortdir/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

func (a *app) newUndoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo [dir]",
		Short: "Undo the last organization of a folder",
		Long: `Undo replays the journal of the last organize run backwards, moving each
file back to where it came from. Files that were deleted since are skipped.
If a file's old place is taken, it comes back under a new name. Empty
category folders are removed and the journal is deleted, so a run can only
be undone once.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.undo(cmd.Context(), rootArg(args))
		},
	}

	cmd.Flags().Bool("dry-run", false, "show what would be restored without moving anything")

	return cmd
}

func (a *app) undo(ctx context.Context, root string) error {
	dryRun := a.v.GetBool("dry-run")

	org, err := a.organizer(a.console, dryRun, nil)
	if err != nil {
		return err
	}

	op := &operation.UndoOperation{Organizer: org, Root: root}
	err = a.runner.Run(ctx, op)

	if report := op.Report; report != nil {
		a.printUndoReport(report)
	}

	switch {
	case errors.Is(err, operation.ErrInvalidRoot):
		return err
	case errors.Is(err, context.Canceled):
		a.console.Warning("Operation cancelled by the user, the journal was kept")
		if !dryRun {
			a.notify(ctx, notify.Cancelled())
		}
		return err
	case err != nil:
		if !dryRun {
			a.notify(ctx, notify.UndoFailed(err))
		}
		return err
	}

	if dryRun {
		a.console.Infof("Dry run: %d files would be restored", op.Report.Restored)
		return nil
	}

	a.notify(ctx, notify.UndoDone(op.Report.Root, op.Report.Restored))
	return nil
}

func (a *app) printUndoReport(report *operation.UndoReport) {
	a.console.LogNewline()
	a.console.Successf("Restored %d files", report.Restored)
	if report.Skipped > 0 {
		a.console.Warningf("Skipped %d files that no longer exist", report.Skipped)
	}
	for _, dir := range report.RemovedDirs {
		a.console.Infof("Removed empty folder %s", filepath.Base(dir))
	}
	for _, w := range report.Warnings {
		a.console.Warning(w)
	}
	a.printFailures(report.Failures)
	if n := len(report.Failures); n > 0 {
		a.console.Warningf("%d files could not be restored", n)
	}
}
