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

package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/sortdir/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func sampleJournal() *Journal {
	base := time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)
	j := New()
	j.Append(NewMove("run-1", "/data/in/a.png", "/data/in/Imagenes/a.png", base))
	j.Append(NewMove("run-1", "/data/in/sub/b.pdf", "/data/in/Documentos/b.pdf", base.Add(time.Second)))
	j.Append(NewMove("run-1", "/data/in/c.pdf", "/data/in/Documentos/b_1.pdf", base.Add(2*time.Second)))
	return j
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	path := Path(dir, "")
	fm := status.New()

	want := sampleJournal()
	require.NoError(t, Save(ctx, fm, path, want))

	got, err := Load(ctx, fm, path)
	require.NoError(t, err)

	if diff := cmp.Diff(want.Actions(), got.Actions()); diff != "" {
		t.Fatalf("journal mismatch after round trip (-want +got):\n%s", diff)
	}
}

func TestSaveOverwritesPreviousRun(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	path := Path(dir, "")
	fm := status.New()

	require.NoError(t, Save(ctx, fm, path, sampleJournal()))

	second := New()
	second.Append(NewMove("run-2", "/x/y.txt", "/x/Documentos/y.txt", time.Now().UTC()))
	require.NoError(t, Save(ctx, fm, path, second))

	got, err := Load(ctx, fm, path)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len(), "only the latest run should be on disk")
	assert.Equal(t, "run-2", got.Actions()[0].RunID)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		wantErr error
	}{
		{
			name:    "missing",
			wantErr: ErrNotFound,
		},
		{
			name:    "garbage",
			content: ptr("{not json"),
			wantErr: ErrCorrupt,
		},
		{
			name:    "object_instead_of_array",
			content: ptr(`{"type":"move"}`),
			wantErr: ErrCorrupt,
		},
		{
			name:    "unknown_type",
			content: ptr(`[{"type":"copy","origin":"/a","destination":"/b","timestamp":"2025-01-01T00:00:00Z"}]`),
			wantErr: ErrCorrupt,
		},
		{
			name:    "missing_origin",
			content: ptr(`[{"type":"move","destination":"/b","timestamp":"2025-01-01T00:00:00Z"}]`),
			wantErr: ErrCorrupt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			dir := t.TempDir()
			path := Path(dir, "")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o644))
			}

			_, err := Load(ctx, status.New(), path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "error should be %v, got %v", tt.wantErr, err)
		})
	}
}

func ptr(s string) *string { return &s }

func TestEmptyJournalRoundTrip(t *testing.T) {
	data, err := New().Marshal()
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	j, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, 0, j.Len())
}

func TestReversed(t *testing.T) {
	j := sampleJournal()
	rev := j.Reversed()
	require.Len(t, rev, 3)
	assert.Equal(t, "/data/in/c.pdf", rev[0].Origin, "last move should come first")
	assert.Equal(t, "/data/in/a.png", rev[2].Origin)
	assert.Equal(t, "/data/in/a.png", j.Actions()[0].Origin, "reversing must not reorder the journal")
}

func TestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/root", DefaultName), Path("/root", ""))
	assert.Equal(t, filepath.Join("/root", "custom.json"), Path("/root", "custom.json"))
	assert.Equal(t, "/elsewhere/j.json", Path("/root", "/elsewhere/j.json"))
}

func TestIsJournalFile(t *testing.T) {
	tests := []struct {
		base string
		name string
		want bool
	}{
		{base: DefaultName, name: "", want: true},
		{base: DefaultName + ".12345.tmp", name: "", want: true},
		{base: DefaultName + ".bak", name: "", want: false},
		{base: "custom.json", name: "/abs/custom.json", want: true},
		{base: "notes.txt", name: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			assert.Equal(t, tt.want, IsJournalFile(tt.base, tt.name))
		})
	}
}

func TestRemove(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	path := Path(dir, "")
	fm := status.New()

	require.NoError(t, Save(ctx, fm, path, sampleJournal()))
	require.NoError(t, Remove(ctx, fm, path))
	assert.NoFileExists(t, path)

	err := Remove(ctx, fm, path)
	require.Error(t, err, "removing twice should fail")
}
