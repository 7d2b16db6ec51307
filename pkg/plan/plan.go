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

package plan

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/sortdir/pkg/category"
	"github.com/walteh/sortdir/pkg/journal"
	"gitlab.com/tozd/go/errors"
)

// DefaultLockName is the lock file an organize or undo run holds in root.
const DefaultLockName = ".sortdir.lock"

// 🗺️ Planner decides which files under a root still need organizing
type Planner struct {
	// Categories supplies the folder names treated as already organized.
	Categories *category.Map
	// Ignore holds doublestar patterns matched against slash-separated
	// paths relative to root. A pattern without a slash also matches the
	// base name at any depth.
	Ignore []string
	// JournalName is the journal file name (or absolute path) to skip.
	JournalName string
	// LockName is the lock file name to skip.
	LockName string
}

// 🏭 New creates a planner with default journal and lock names
func New(categories *category.Map, ignore []string) *Planner {
	return &Planner{
		Categories:  categories,
		Ignore:      ignore,
		JournalName: journal.DefaultName,
		LockName:    DefaultLockName,
	}
}

// ValidateIgnore checks that every pattern is a valid doublestar glob.
func ValidateIgnore(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return errors.Errorf("invalid ignore pattern %q", p)
		}
	}
	return nil
}

// 🔍 Plan lazily yields the files under root that should be organized.
//
// Without recursive only the direct regular files of root are considered.
// With recursive the tree is walked top-down and any child directory that
// looks organized is not entered. Files whose parent folder is a category
// folder are never yielded. An unreadable root yields one error and stops;
// unreadable subdirectories are logged and skipped.
//
// Each call to the returned sequence rescans the file system.
func (p *Planner) Plan(ctx context.Context, root string, recursive bool) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if recursive {
			p.walk(ctx, root, yield)
			return
		}
		p.list(ctx, root, yield)
	}
}

func (p *Planner) list(ctx context.Context, root string, yield func(string, error) bool) {
	entries, err := os.ReadDir(root)
	if err != nil {
		yield("", errors.Errorf("reading directory %s: %w", root, err))
		return
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			yield("", errors.WithStack(err))
			return
		}
		if !e.Type().IsRegular() {
			continue
		}
		path := filepath.Join(root, e.Name())
		if p.Excludes(root, path) {
			continue
		}
		if !yield(path, nil) {
			return
		}
	}
}

func (p *Planner) walk(ctx context.Context, root string, yield func(string, error) bool) {
	logger := zerolog.Ctx(ctx)

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			yield("", errors.WithStack(cerr))
			return filepath.SkipAll
		}

		if err != nil {
			if path == root {
				yield("", errors.Errorf("reading directory %s: %w", root, err))
				return filepath.SkipAll
			}
			logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable directory")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if p.Prunes(root, path) {
				logger.Debug().Str("path", path).Msg("pruning directory")
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if p.Excludes(root, path) {
			return nil
		}
		if !yield(path, nil) {
			return filepath.SkipAll
		}
		return nil
	})
}

// LooksOrganized reports whether dir is a category folder or directly holds
// one. A directory that cannot be read does not look organized.
func (p *Planner) LooksOrganized(dir string) bool {
	if p.Categories.IsCategory(filepath.Base(dir)) {
		return true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() && p.Categories.IsCategory(e.Name()) {
			return true
		}
	}
	return false
}

// Prunes reports whether a recursive plan would skip dir. Root is never
// pruned.
func (p *Planner) Prunes(root, dir string) bool {
	if filepath.Clean(root) == filepath.Clean(dir) {
		return false
	}
	return p.ignored(root, dir) || p.LooksOrganized(dir)
}

// Excludes reports whether the file at path is never yielded: it sits in a
// category folder, belongs to the journal or lock, or matches Ignore.
func (p *Planner) Excludes(root, path string) bool {
	if p.Categories.IsCategory(filepath.Base(filepath.Dir(path))) {
		return true
	}

	base := filepath.Base(path)
	if journal.IsJournalFile(base, p.JournalName) {
		return true
	}
	lock := p.LockName
	if lock == "" {
		lock = DefaultLockName
	}
	if base == lock {
		return true
	}

	return p.ignored(root, path)
}

func (p *Planner) ignored(root, path string) bool {
	if len(p.Ignore) == 0 {
		return false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)

	for _, pattern := range p.Ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, base); ok {
				return true
			}
		}
	}
	return false
}
