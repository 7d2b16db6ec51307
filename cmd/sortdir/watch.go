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
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/sortdir/pkg/notify"
	"github.com/walteh/sortdir/pkg/operation"
	"github.com/walteh/sortdir/pkg/stats"
	"github.com/walteh/sortdir/pkg/watch"
	"gitlab.com/tozd/go/errors"
)

func (a *app) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Keep a folder organized as files arrive",
		Long: `Watch organizes dir once, then again every time new files have settled.
Each pass is a normal organize run with its own journal, so "sortdir undo"
reverts the latest pass. Stop with ctrl-c.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.watch(cmd.Context(), rootArg(args))
		},
	}

	cmd.Flags().BoolP("recursive", "r", true, "also organize and watch subdirectories")
	cmd.Flags().BoolP("overwrite", "o", false, "overwrite duplicates instead of renaming them")
	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet time before a pass runs")

	return cmd
}

func (a *app) watch(ctx context.Context, root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return errors.Errorf("%w: %s: %s", operation.ErrInvalidRoot, root, err.Error())
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return errors.Errorf("%w: %s is not a directory", operation.ErrInvalidRoot, abs)
	}

	org, err := a.organizer(a.console, false, nil)
	if err != nil {
		return err
	}

	recursive := a.v.GetBool("recursive")
	overwrite := a.v.GetBool("overwrite")

	pass := func(ctx context.Context) error {
		op := &operation.OrganizeOperation{
			Organizer: org,
			Root:      abs,
			Recursive: recursive,
			Overwrite: overwrite,
		}
		if err := a.runner.Run(ctx, op); err != nil {
			return err
		}

		report := op.Report
		a.printFailures(report.Failures)
		if report.JournalErr != nil {
			return errors.Errorf("saving journal: %w", report.JournalErr)
		}
		if report.Moved > 0 {
			a.console.Raw(stats.Summarize(report.Statistics))
			a.notify(ctx, notify.OrganizeDone(abs, report.Statistics.Total()))
		}
		return nil
	}

	w, err := watch.New(abs, pass, watch.Options{
		Planner:   org.Planner,
		Recursive: recursive,
		Debounce:  a.v.GetDuration("debounce"),
		OnError: func(err error) {
			a.console.Errorf("Pass failed: %v", err)
		},
	})
	if err != nil {
		return errors.Errorf("creating watcher: %w", err)
	}

	a.console.Header(fmt.Sprintf("watching %s (ctrl-c to stop)", abs))
	if err := w.Run(ctx); err != nil {
		return errors.Errorf("watching %s: %w", abs, err)
	}
	a.console.Info("Stopped watching")
	return nil
}
