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
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/walteh/sortdir/pkg/category"
	"github.com/walteh/sortdir/pkg/config"
	"github.com/walteh/sortdir/pkg/log"
	"github.com/walteh/sortdir/pkg/notify"
	"github.com/walteh/sortdir/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// defaultDir is organized when no directory is given.
const defaultDir = "archivos"

// skipConfig marks commands that run without loading a config file.
const skipConfig = "sortdir/skip-config"

// configNames are looked up, in order, in the working directory and in
// ~/.config/sortdir when --config is not set.
var configNames = []string{
	"sortdir.yaml", "sortdir.yml", "sortdir.hcl", "sortdir.toml", "sortdir.json",
	".sortdir.yaml", ".sortdir.yml", ".sortdir.hcl", ".sortdir.toml", ".sortdir.json",
}

// 🧰 app holds what every command shares
type app struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer

	// newNotifier builds the notifier once the config is known
	newNotifier func(opts notify.Options) notify.Notifier

	cfg      *config.Config
	zlog     zerolog.Logger
	console  *log.Logger
	notifier notify.Notifier
	runner   *operation.OperationRunner
}

func newApp(stdout, stderr io.Writer) *app {
	v := viper.New()
	v.SetEnvPrefix("SORTDIR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &app{
		v:           v,
		stdout:      stdout,
		stderr:      stderr,
		newNotifier: notify.New,
		cfg:         config.Default(),
		zlog:        zerolog.Nop(),
		console:     log.Discard(),
		notifier:    notify.Noop{},
		runner:      operation.NewRunner(nil),
	}
}

// 🏭 NewCommand creates the sortdir root command
func NewCommand(stdout, stderr io.Writer) *cobra.Command {
	return newApp(stdout, stderr).command()
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sortdir",
		Short: "Sort a folder into category subfolders by file extension",
		Long: `sortdir moves every file of a folder into a subfolder named after its
category (Imagenes, Documentos, Videos, ...). Files nobody claims go to Otros.
Every move is journaled so the last run can be undone.

Categories:
` + categoryHelp(category.Default(), 3),
		Example: `  sortdir organize                 # organize ./archivos
  sortdir organize ~/Downloads     # organize a specific folder
  sortdir organize -o /tmp/test    # overwrite duplicates instead of renaming
  sortdir undo ~/Downloads         # undo the last organization
  sortdir watch ~/Downloads        # keep a folder organized`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ./sortdir.yaml or ~/.config/sortdir/config.yaml)")
	cmd.PersistentFlags().BoolP("debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().Bool("no-notify", false, "disable notifications when a run finishes")
	cmd.PersistentFlags().String("journal", "", "journal file name inside the folder")

	cmd.AddCommand(
		a.newOrganizeCmd(),
		a.newUndoCmd(),
		a.newWatchCmd(),
		a.newCategoriesCmd(),
		a.newVersionCmd(),
	)

	return cmd
}

// setup binds flags and environment, configures logging and loads the
// config file.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Errorf("binding flags: %w", err)
	}
	if err := a.v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return errors.Errorf("binding flags: %w", err)
	}

	a.setupLogging()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = a.zlog.WithContext(ctx)
	cmd.SetContext(ctx)

	a.console = log.New(a.stdout, a.zlog)
	a.runner = operation.NewRunner(&a.zlog)

	if _, ok := cmd.Annotations[skipConfig]; ok {
		return nil
	}

	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.notifier = a.newNotifier(cfg.NotifyOptions(a.v.GetBool("no-notify"), a.stdout))

	return nil
}

// setupLogging configures zerolog based on flags
func (a *app) setupLogging() {
	level := zerolog.WarnLevel
	if a.v.GetBool("debug") {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{
		Out:        a.stderr,
		NoColor:    !isTerminal(a.stderr),
		TimeFormat: time.Kitchen,
	}
	a.zlog = zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func (a *app) loadConfig(ctx context.Context) (*config.Config, error) {
	logger := zerolog.Ctx(ctx)

	path := a.v.GetString("config")
	if path == "" {
		path = findConfig()
	}

	var cfg *config.Config
	if path == "" {
		logger.Debug().Msg("no config file, using built-in categories")
		cfg = config.Default()
	} else {
		loaded, err := config.Load(ctx, path)
		if err != nil {
			return nil, errors.Errorf("loading config %s: %w", path, err)
		}
		cfg = loaded
	}

	if journal := a.v.GetString("journal"); journal != "" {
		cfg.Journal = journal
		if err := cfg.Validate(); err != nil {
			return nil, errors.Errorf("validating --journal: %w", err)
		}
	}

	return cfg, nil
}

func findConfig() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "sortdir"))
	}

	for _, dir := range dirs {
		names := configNames
		if dir != "." {
			names = []string{"config.yaml", "config.yml", "config.hcl", "config.toml", "config.json"}
		}
		for _, name := range names {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
				return path
			}
		}
	}
	return ""
}

// organizer builds an organizer from the loaded config.
func (a *app) organizer(console *log.Logger, dryRun bool, progress func(done, total int)) (*operation.Organizer, error) {
	org, err := operation.New(operation.Options{
		Categories:      a.cfg.CategoryMap(),
		Ignore:          a.cfg.Ignore,
		JournalName:     a.cfg.Journal,
		CheckpointEvery: a.cfg.CheckpointEvery,
		DryRun:          dryRun,
		Logger:          console,
		Progress:        progress,
	})
	if err != nil {
		return nil, errors.Errorf("creating organizer: %w", err)
	}
	return org, nil
}

// notify sends msg even when ctx was cancelled. Delivery failures are only
// logged.
func (a *app) notify(ctx context.Context, msg notify.Message) {
	if err := a.notifier.Notify(context.WithoutCancel(ctx), msg); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("title", msg.Title).Msg("sending notification")
	}
}

func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultDir
}

// categoryHelp lists each category with its first n extensions.
func categoryHelp(m *category.Map, n int) string {
	var sb strings.Builder
	for _, c := range m.Categories() {
		exts := c.Extensions
		more := ""
		if len(exts) > n {
			exts = exts[:n]
			more = "..."
		}
		fmt.Fprintf(&sb, "  - %s: %s%s\n", c.Name, strings.Join(exts, ", "), more)
	}
	fmt.Fprintf(&sb, "  - %s: everything else\n", m.Fallback())
	return sb.String()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
