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


package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/walteh/sortdir/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

// DefaultDebounce is how long the tree must be quiet before a pass runs.
const DefaultDebounce = 750 * time.Millisecond

// PassFunc runs one organize pass over the watched root.
type PassFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Planner decides which paths are relevant. Its rules match the ones
	// the organize pass uses so the pass never wakes itself up.
	Planner *plan.Planner
	// Recursive watches every subdirectory the planner would enter.
	Recursive bool
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// OnError is called with every failed pass. Errors are logged either way.
	OnError func(err error)
}

// 👀 Watcher runs an organize pass whenever new files settle under a root
type Watcher struct {
	root      string
	pass      PassFunc
	planner   *plan.Planner
	recursive bool
	debounce  time.Duration
	onError   func(err error)
	fsw       *fsnotify.Watcher
}

// 🏭 New creates a watcher for root. Nothing is watched until Run.
func New(root string, pass PassFunc, opts Options) (*Watcher, error) {
	if pass == nil {
		return nil, errors.New("pass function is required")
	}
	if opts.Planner == nil {
		return nil, errors.New("planner is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving root: %w", err)
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		root:      abs,
		pass:      pass,
		planner:   opts.Planner,
		recursive: opts.Recursive,
		debounce:  debounce,
		onError:   opts.OnError,
	}, nil
}

// 🔁 Run does one pass, then watches until ctx is done. Passes run one at a
// time on the calling goroutine. A cancelled context is not an error.
func (w *Watcher) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx).With().Str("root", w.root).Logger()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating watcher: %w", err)
	}
	w.fsw = fsw
	defer func() {
		if err := fsw.Close(); err != nil {
			logger.Debug().Err(err).Msg("closing watcher")
		}
	}()

	if err := w.addTree(ctx, w.root); err != nil {
		return err
	}
	logger.Info().Bool("recursive", w.recursive).Dur("debounce", w.debounce).Msg("watching for new files")

	w.runPass(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("watch stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New("watcher event channel closed")
			}
			if w.handleEvent(ctx, event) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			logger.Warn().Err(err).Msg("watcher error")

		case <-timer.C:
			w.runPass(ctx)
		}
	}
}

func (w *Watcher) runPass(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	err := w.pass(ctx)
	logger := zerolog.Ctx(ctx)
	if err != nil {
		logger.Warn().Err(err).Dur("duration", time.Since(start)).Msg("organize pass failed")
		if w.onError != nil {
			w.onError(err)
		}
		return
	}
	logger.Debug().Dur("duration", time.Since(start)).Msg("organize pass finished")
}

// handleEvent reports whether event should schedule a pass. New directories
// are added to the watch list in recursive mode.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}

	if event.Has(fsnotify.Create) && isDir(event.Name) {
		if !w.recursive || w.planner.Prunes(w.root, event.Name) {
			return false
		}
		if err := w.addTree(ctx, event.Name); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("path", event.Name).Msg("watching new directory")
		}
		return true
	}

	if !w.Relevant(event.Name) {
		return false
	}
	zerolog.Ctx(ctx).Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("file changed")
	return true
}

// Relevant reports whether a change to the file at path should trigger a
// pass.
func (w *Watcher) Relevant(path string) bool {
	if filepath.Dir(path) != w.root && !w.recursive {
		return false
	}
	return !w.planner.Excludes(w.root, path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (w *Watcher) addTree(ctx context.Context, dir string) error {
	if !w.recursive {
		if err := w.fsw.Add(dir); err != nil {
			return errors.Errorf("watching %s: %w", dir, err)
		}
		return nil
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return errors.Errorf("watching %s: %w", dir, err)
			}
			zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("skipping unreadable directory")
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.planner.Prunes(w.root, path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return errors.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
