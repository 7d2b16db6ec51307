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

package category

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	m := Default()

	tests := []struct {
		name string
		ext  string
		want string
	}{
		{name: "image_lower", ext: ".png", want: "Imagenes"},
		{name: "image_upper", ext: ".PNG", want: "Imagenes"},
		{name: "mixed_case_document", ext: ".DocX", want: "Documentos"},
		{name: "video", ext: ".mkv", want: "Videos"},
		{name: "music", ext: ".flac", want: "Musica"},
		{name: "archive", ext: ".7z", want: "Archivos_Comprimidos"},
		{name: "program", ext: ".deb", want: "Programas"},
		{name: "script", ext: ".sh", want: "Scripts"},
		{name: "unknown", ext: ".xyz", want: Other},
		{name: "no_extension", ext: "", want: Other},
		{name: "missing_dot", ext: "png", want: Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Classify(tt.ext), "classification should match")
		})
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	m := Default()
	for _, c := range m.Categories() {
		for _, ext := range c.Extensions {
			assert.Equal(t, m.Classify(ext), m.Classify(strings.ToUpper(ext)), "case should not matter for %s", ext)
		}
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		categories  []Category
		wantErr     bool
		errContains string
		check       func(t *testing.T, m *Map)
	}{
		{
			name: "normalizes_extensions",
			categories: []Category{
				{Name: "Raw", Extensions: []string{"CR2", ".NEF", "  .arw "}},
			},
			check: func(t *testing.T, m *Map) {
				assert.Equal(t, []string{".cr2", ".nef", ".arw"}, m.Extensions("Raw"))
				assert.Equal(t, "Raw", m.Classify(".nef"))
			},
		},
		{
			name: "last_writer_wins",
			categories: []Category{
				{Name: "First", Extensions: []string{".dat"}},
				{Name: "Second", Extensions: []string{".dat"}},
			},
			check: func(t *testing.T, m *Map) {
				assert.Equal(t, "Second", m.Classify(".dat"))
				assert.Empty(t, m.Extensions("First"))
			},
		},
		{
			name:        "reserved_name",
			categories:  []Category{{Name: Other, Extensions: []string{".x"}}},
			wantErr:     true,
			errContains: "reserved",
		},
		{
			name:        "empty_name",
			categories:  []Category{{Name: " ", Extensions: []string{".x"}}},
			wantErr:     true,
			errContains: "name is required",
		},
		{
			name:        "path_separator",
			categories:  []Category{{Name: "a/b"}},
			wantErr:     true,
			errContains: "not a valid folder name",
		},
		{
			name: "duplicate_name",
			categories: []Category{
				{Name: "A"},
				{Name: "A"},
			},
			wantErr:     true,
			errContains: "defined twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.categories)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			tt.check(t, m)
		})
	}
}

func TestNamesAndIsCategory(t *testing.T) {
	m := Default()

	names := m.Names()
	require.Len(t, names, 8)
	assert.Equal(t, "Imagenes", names[0], "table order should be kept")
	assert.Equal(t, Other, names[len(names)-1], "sentinel should be last")

	assert.True(t, m.IsCategory("Documentos"))
	assert.True(t, m.IsCategory(Other))
	assert.False(t, m.IsCategory("documentos"), "folder names are matched exactly")
	assert.False(t, m.IsCategory("Fotos"))
}

func TestNewWithFallback(t *testing.T) {
	m, err := NewWithFallback([]Category{{Name: "Docs", Extensions: []string{".pdf"}}}, "Misc")
	require.NoError(t, err)

	assert.Equal(t, "Misc", m.Fallback())
	assert.Equal(t, "Misc", m.Classify(".xyz"))
	assert.Equal(t, []string{"Docs", "Misc"}, m.Names())
	assert.True(t, m.IsCategory("Misc"))
	assert.False(t, m.IsCategory(Other))

	_, err = NewWithFallback([]Category{{Name: "Misc"}}, "Misc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved")

	_, err = NewWithFallback(nil, "../up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallback")
}

func TestDefaultCategoriesIsACopy(t *testing.T) {
	cats := DefaultCategories()
	cats[0].Extensions[0] = ".changed"
	assert.Equal(t, "Imagenes", Default().Classify(".png"))
}
