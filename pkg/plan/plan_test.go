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
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/sortdir/pkg/category"
	"github.com/walteh/sortdir/pkg/journal"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		path := filepath.Join(root, filepath.FromSlash(r))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(r), 0o644))
	}
}

func collect(t *testing.T, ctx context.Context, p *Planner, root string, recursive bool) []string {
	t.Helper()
	var out []string
	for path, err := range p.Plan(ctx, root, recursive) {
		require.NoError(t, err)
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name      string
		files     []string
		dirs      []string
		recursive bool
		ignore    []string
		want      []string
	}{
		{
			name:  "flat_lists_direct_files_only",
			files: []string{"a.png", "b.pdf", "sub/c.mp3"},
			want:  []string{"a.png", "b.pdf"},
		},
		{
			name:      "recursive_descends",
			files:     []string{"a.png", "sub/c.mp3", "sub/deeper/d.zip"},
			recursive: true,
			want:      []string{"a.png", "sub/c.mp3", "sub/deeper/d.zip"},
		},
		{
			name:      "category_folder_is_never_scanned",
			files:     []string{"a.png", "Documentos/old.pdf", "Documentos/nested/x.txt"},
			recursive: true,
			want:      []string{"a.png"},
		},
		{
			name:      "other_folder_is_never_scanned",
			files:     []string{"Otros/thing.xyz", "z.xyz"},
			recursive: true,
			want:      []string{"z.xyz"},
		},
		{
			name:      "folder_holding_category_folder_is_pruned",
			files:     []string{"sorted/Imagenes/p.png", "sorted/loose.txt", "raw/q.png"},
			recursive: true,
			want:      []string{"raw/q.png"},
		},
		{
			name:      "root_with_category_children_is_still_scanned",
			files:     []string{"Imagenes/p.png", "new.png"},
			recursive: true,
			want:      []string{"new.png"},
		},
		{
			name:  "journal_and_lock_are_skipped",
			files: []string{"a.txt", journal.DefaultName, journal.DefaultName + ".abc.tmp", DefaultLockName},
			want:  []string{"a.txt"},
		},
		{
			name:      "ignore_patterns",
			files:     []string{"a.txt", "dl.part", "sub/more.part", "node_modules/pkg/index.js", "src/app.js"},
			recursive: true,
			ignore:    []string{"*.part", "**/node_modules/**"},
			want:      []string{"a.txt", "src/app.js"},
		},
		{
			name:      "empty_directories_yield_nothing",
			dirs:      []string{"empty", "also/empty"},
			recursive: true,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			root := t.TempDir()
			touch(t, root, tt.files...)
			for _, d := range tt.dirs {
				require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
			}

			p := New(category.Default(), tt.ignore)
			got := collect(t, ctx, p, root, tt.recursive)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanSkipsSymlinks(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	touch(t, root, "real.txt")

	outside := t.TempDir()
	touch(t, outside, "target.txt", "dir/inner.txt")

	if err := os.Symlink(filepath.Join(outside, "target.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(outside, "dir"), filepath.Join(root, "linkdir")))

	p := New(category.Default(), nil)
	assert.Equal(t, []string{"real.txt"}, collect(t, ctx, p, root, true))
	assert.Equal(t, []string{"real.txt"}, collect(t, ctx, p, root, false))
}

func TestPlanMissingRoot(t *testing.T) {
	for _, recursive := range []bool{true, false} {
		ctx := testContext(t)
		p := New(category.Default(), nil)

		var errs int
		for _, err := range p.Plan(ctx, filepath.Join(t.TempDir(), "missing"), recursive) {
			require.Error(t, err)
			errs++
		}
		assert.Equal(t, 1, errs, "missing root should yield exactly one error")
	}
}

func TestPlanStopsWhenConsumerStops(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	touch(t, root, "a.txt", "b.txt", "c.txt", "sub/d.txt")

	p := New(category.Default(), nil)
	n := 0
	for range p.Plan(ctx, root, true) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestPlanCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	root := t.TempDir()
	touch(t, root, "a.txt", "b.txt")
	cancel()

	p := New(category.Default(), nil)
	var gotErr error
	for path, err := range p.Plan(ctx, root, true) {
		assert.Empty(t, path)
		gotErr = err
	}
	require.ErrorIs(t, gotErr, context.Canceled)
}

func TestPlanIsRescannedOnEachIteration(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	touch(t, root, "a.txt")

	p := New(category.Default(), nil)
	seq := p.Plan(ctx, root, false)

	first := 0
	for range seq {
		first++
	}
	touch(t, root, "b.txt")
	second := 0
	for range seq {
		second++
	}

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestLooksOrganized(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "Musica/a.mp3", "holder/Videos/v.mp4", "plain/x.txt")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "emptydir"), 0o755))

	p := New(category.Default(), nil)
	assert.True(t, p.LooksOrganized(filepath.Join(root, "Musica")))
	assert.True(t, p.LooksOrganized(filepath.Join(root, "holder")))
	assert.False(t, p.LooksOrganized(filepath.Join(root, "plain")))
	assert.False(t, p.LooksOrganized(filepath.Join(root, "emptydir")))
	assert.False(t, p.LooksOrganized(filepath.Join(root, "missing")))
}

func TestPrunesAndExcludes(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "holder/Videos/v.mp4", "inbox/a.txt", "node_modules/x.js")

	p := New(category.Default(), []string{"node_modules", "*.part"})

	assert.False(t, p.Prunes(root, root), "root is never pruned")
	assert.False(t, p.Prunes(root, filepath.Join(root, "inbox")))
	assert.True(t, p.Prunes(root, filepath.Join(root, "holder")))
	assert.True(t, p.Prunes(root, filepath.Join(root, "Imagenes")))
	assert.True(t, p.Prunes(root, filepath.Join(root, "node_modules")))

	assert.False(t, p.Excludes(root, filepath.Join(root, "inbox", "a.txt")))
	assert.True(t, p.Excludes(root, filepath.Join(root, "Musica", "a.mp3")))
	assert.True(t, p.Excludes(root, filepath.Join(root, journal.DefaultName)))
	assert.True(t, p.Excludes(root, filepath.Join(root, DefaultLockName)))
	assert.True(t, p.Excludes(root, filepath.Join(root, "inbox", "big.iso.part")))
}

func TestValidateIgnore(t *testing.T) {
	require.NoError(t, ValidateIgnore([]string{"*.part", "**/node_modules/**"}))
	require.Error(t, ValidateIgnore([]string{"[unterminated"}))
}
