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
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/sortdir/pkg/category"
	"github.com/walteh/sortdir/pkg/plan"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/goleak"
)

const waitFor = 5 * time.Second

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func newPlanner() *plan.Planner {
	return plan.New(category.Default(), []string{"*.part"})
}

// startWatcher runs w in the background and returns a stop function that
// cancels it and waits for Run to return.
func startWatcher(t *testing.T, w *Watcher) (stop func() error) {
	ctx, cancel := context.WithCancel(testContext(t))
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()
	return func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(waitFor):
			t.Fatal("watcher did not stop")
			return nil
		}
	}
}

func waitPass(t *testing.T, passes <-chan struct{}, msg string) {
	t.Helper()
	select {
	case <-passes:
	case <-time.After(waitFor):
		t.Fatal(msg)
	}
}

func TestNewValidates(t *testing.T) {
	_, err := New(t.TempDir(), nil, Options{Planner: newPlanner()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass function is required")

	_, err = New(t.TempDir(), func(context.Context) error { return nil }, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "planner is required")

	w, err := New(t.TempDir(), func(context.Context) error { return nil }, Options{Planner: newPlanner()})
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)
}

func TestRelevant(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name      string
		path      string
		recursive bool
		want      bool
	}{
		{name: "new_file_in_root", path: "photo.jpg", want: true},
		{name: "journal", path: ".sortdir.journal.json", want: false},
		{name: "journal_temp_file", path: ".sortdir.journal.json.1234.tmp", want: false},
		{name: "lock_file", path: plan.DefaultLockName, want: false},
		{name: "ignored_pattern", path: "movie.mkv.part", want: false},
		{name: "file_in_category_folder", path: "Documentos/a.pdf", recursive: true, want: false},
		{name: "nested_file_recursive", path: "inbox/a.pdf", recursive: true, want: true},
		{name: "nested_file_flat", path: "inbox/a.pdf", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := New(root, func(context.Context) error { return nil }, Options{Planner: newPlanner(), Recursive: tt.recursive})
			require.NoError(t, err)
			assert.Equal(t, tt.want, w.Relevant(filepath.Join(root, filepath.FromSlash(tt.path))))
		})
	}
}

func TestRunPassesOnNewFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	passes := make(chan struct{}, 16)
	w, err := New(root, func(context.Context) error {
		passes <- struct{}{}
		return nil
	}, Options{Planner: newPlanner(), Debounce: 50 * time.Millisecond})
	require.NoError(t, err)

	stop := startWatcher(t, w)
	waitPass(t, passes, "initial pass did not run")

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644))
	waitPass(t, passes, "new file did not trigger a pass")

	require.NoError(t, stop())
}

func TestRunRecursiveWatchesNewDirectories(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Imagenes"), 0755))

	passes := make(chan struct{}, 16)
	w, err := New(root, func(context.Context) error {
		passes <- struct{}{}
		return nil
	}, Options{Planner: newPlanner(), Recursive: true, Debounce: 50 * time.Millisecond})
	require.NoError(t, err)

	stop := startWatcher(t, w)
	waitPass(t, passes, "initial pass did not run")

	inbox := filepath.Join(root, "inbox")
	require.NoError(t, os.Mkdir(inbox, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "song.mp3"), []byte("x"), 0644))
	waitPass(t, passes, "new directory did not trigger a pass")

	require.NoError(t, stop())
}

func TestRunReportsPassErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	var failures atomic.Int32
	reported := make(chan struct{}, 4)
	w, err := New(t.TempDir(), func(context.Context) error {
		return errors.New("locked")
	}, Options{
		Planner: newPlanner(),
		OnError: func(err error) {
			failures.Add(1)
			reported <- struct{}{}
		},
	})
	require.NoError(t, err)

	stop := startWatcher(t, w)
	waitPass(t, reported, "failed pass was not reported")
	require.NoError(t, stop(), "a failed pass should not stop the watcher")
	assert.Equal(t, int32(1), failures.Load())
}

func TestRunMissingRoot(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := New(filepath.Join(t.TempDir(), "gone"), func(context.Context) error { return nil }, Options{Planner: newPlanner()})
	require.NoError(t, err)

	err = w.Run(testContext(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching")
}
