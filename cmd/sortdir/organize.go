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
	"io"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/sortdir/pkg/log"
	"github.com/walteh/sortdir/pkg/notify"
	"github.com/walteh/sortdir/pkg/operation"
	"github.com/walteh/sortdir/pkg/stats"
	"github.com/walteh/sortdir/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func (a *app) newOrganizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize [dir]",
		Short: "Move files into category folders",
		Long: `Organize moves every file of dir (./archivos by default) into a folder
named after its category. Subfolders are scanned too, except the ones that
already look organized. A file whose name is taken gets a numeric suffix
(report.txt, report_1.txt, ...) unless --overwrite is set.

Every move is written to a journal inside dir so "sortdir undo" can put the
files back.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.organize(cmd.Context(), rootArg(args))
		},
	}

	cmd.Flags().BoolP("recursive", "r", true, "also organize subdirectories")
	cmd.Flags().BoolP("overwrite", "o", false, "overwrite duplicates instead of renaming them")
	cmd.Flags().Bool("dry-run", false, "show what would be moved without moving anything")
	cmd.Flags().Bool("progress", false, "show a progress bar instead of one line per file (terminals only)")

	return cmd
}

func (a *app) organize(ctx context.Context, root string) error {
	dryRun := a.v.GetBool("dry-run")

	console := a.console
	var bar *progressBar
	if a.v.GetBool("progress") && isTerminal(a.stdout) {
		console = log.New(io.Discard, a.zlog)
		bar = newProgressBar(a.stdout, "Organizing")
	}

	org, err := a.organizer(console, dryRun, bar.Update)
	if err != nil {
		return err
	}

	op := &operation.OrganizeOperation{
		Organizer: org,
		Root:      root,
		Recursive: a.v.GetBool("recursive"),
		Overwrite: a.v.GetBool("overwrite"),
	}
	err = a.runner.Run(ctx, op)
	bar.Stop()

	report := op.Report
	if report != nil {
		a.console.LogNewline()
		a.console.Raw(stats.Summarize(report.Statistics))
		a.printFailures(report.Failures)
	}

	switch {
	case errors.Is(err, operation.ErrInvalidRoot):
		return err
	case errors.Is(err, context.Canceled):
		a.console.Warning("Operation cancelled by the user")
		if !dryRun {
			a.notify(ctx, notify.Cancelled())
		}
		return err
	case err != nil:
		if !dryRun {
			a.notify(ctx, notify.Failed(err))
		}
		return err
	case report.JournalErr != nil:
		a.notify(ctx, notify.Failed(report.JournalErr))
		return errors.Errorf("saving journal, these moves cannot be undone: %w", report.JournalErr)
	}

	if n := len(report.Failures); n > 0 {
		a.console.Warningf("%d of %d files could not be moved", n, report.Found)
	}

	if dryRun {
		a.console.Infof("Dry run: %d files would be moved", report.Moved)
		return nil
	}

	zerolog.Ctx(ctx).Debug().
		Str("run_id", report.RunID).
		Int("moved", report.Moved).
		Int("renamed", report.Renamed).
		Dur("duration", report.Duration).
		Msg("organize finished")

	a.notify(ctx, notify.OrganizeDone(report.Root, report.Statistics.Total()))
	return nil
}

func (a *app) printFailures(failures []operation.Failure) {
	for _, f := range failures {
		a.console.Raw(status.FormatError(f.Path, f.Destination, f.Err) + "\n")
	}
}

// 📊 progressBar wraps a pterm progress bar that starts on the first update
type progressBar struct {
	w     io.Writer
	title string
	bar   *pterm.ProgressbarPrinter
}

func newProgressBar(w io.Writer, title string) *progressBar {
	return &progressBar{w: w, title: title}
}

// Update advances the bar. A nil bar does nothing.
func (p *progressBar) Update(done, total int) {
	if p == nil {
		return
	}
	if p.bar == nil {
		bar, err := pterm.DefaultProgressbar.
			WithTotal(total).
			WithTitle(p.title).
			WithWriter(p.w).
			Start()
		if err != nil {
			return
		}
		p.bar = bar
	}
	p.bar.Increment()
}

// Stop clears the bar. A nil bar does nothing.
func (p *progressBar) Stop() {
	if p == nil || p.bar == nil {
		return
	}
	_, _ = p.bar.Stop()
}
