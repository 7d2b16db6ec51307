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


package status

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		existing  []string
		proposed  string
		overwrite bool
		want      string
	}{
		{
			name:     "free_destination",
			proposed: "report.txt",
			want:     "report.txt",
		},
		{
			name:     "first_collision",
			existing: []string{"report.txt"},
			proposed: "report.txt",
			want:     "report_1.txt",
		},
		{
			name:     "second_collision",
			existing: []string{"report.txt", "report_1.txt"},
			proposed: "report.txt",
			want:     "report_2.txt",
		},
		{
			name:     "gap_is_reused",
			existing: []string{"report.txt", "report_2.txt"},
			proposed: "report.txt",
			want:     "report_1.txt",
		},
		{
			name:      "overwrite_keeps_name",
			existing:  []string{"report.txt"},
			proposed:  "report.txt",
			overwrite: true,
			want:      "report.txt",
		},
		{
			name:     "no_extension",
			existing: []string{"Makefile"},
			proposed: "Makefile",
			want:     "Makefile_1",
		},
		{
			name:     "double_extension_splits_last",
			existing: []string{"backup.tar.gz"},
			proposed: "backup.tar.gz",
			want:     "backup.tar_1.gz",
		},
		{
			name:     "dotfile_keeps_leading_dot",
			existing: []string{".bashrc"},
			proposed: ".bashrc",
			want:     ".bashrc_1",
		},
		{
			name:     "dotfile_with_extension",
			existing: []string{".config.yaml", ".config_1.yaml"},
			proposed: ".config.yaml",
			want:     ".config_2.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			dir := t.TempDir()
			for _, name := range tt.existing {
				writeFile(t, filepath.Join(dir, name), name)
			}

			got := Resolve(ctx, New(), filepath.Join(dir, tt.proposed), tt.overwrite)
			assert.Equal(t, filepath.Join(dir, tt.want), got)
		})
	}
}

func TestSplitExt(t *testing.T) {
	tests := []struct {
		name     string
		wantStem string
		wantExt  string
	}{
		{name: "photo.PNG", wantStem: "photo", wantExt: ".PNG"},
		{name: "backup.tar.gz", wantStem: "backup.tar", wantExt: ".gz"},
		{name: "Makefile", wantStem: "Makefile"},
		{name: ".bashrc", wantStem: ".bashrc"},
		{name: ".png", wantStem: ".png"},
		{name: ".config.yaml", wantStem: ".config", wantExt: ".yaml"},
		{name: "notes.", wantStem: "notes."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stem, ext := SplitExt(tt.name)
			assert.Equal(t, tt.wantStem, stem)
			assert.Equal(t, tt.wantExt, ext)
		})
	}

	assert.Equal(t, "", Ext("/data/.png"))
	assert.Equal(t, ".png", Ext("/data/shot.png"))
}
