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

// Package category maps file extensions to the folder a file is sorted into.
package category

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Other is the default fallback category for extensions no category claims.
const Other = "Otros"

// 📁 Category is a named bucket of file extensions
type Category struct {
	Name       string   `json:"name" yaml:"name" hcl:"name,label" toml:"name"`
	Extensions []string `json:"extensions" yaml:"extensions" hcl:"extensions" toml:"extensions"`
}

// 🗺️ Map is the immutable extension table used for one process
type Map struct {
	categories []Category
	byExt      map[string]string
	names      map[string]struct{}
	other      string
}

var defaultCategories = []Category{
	{Name: "Imagenes", Extensions: []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".webp", ".svg", ".ico"}},
	{Name: "Documentos", Extensions: []string{".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt", ".xls", ".xlsx", ".ppt", ".pptx"}},
	{Name: "Videos", Extensions: []string{".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm", ".m4v"}},
	{Name: "Musica", Extensions: []string{".mp3", ".wav", ".flac", ".aac", ".ogg", ".wma", ".m4a"}},
	{Name: "Archivos_Comprimidos", Extensions: []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"}},
	{Name: "Programas", Extensions: []string{".exe", ".msi", ".dmg", ".pkg", ".deb", ".rpm", ".app"}},
	{Name: "Scripts", Extensions: []string{".py", ".js", ".html", ".css", ".php", ".sh", ".bat", ".cmd"}},
}

// 🏭 Default returns the canonical category table
func Default() *Map {
	m, err := New(DefaultCategories())
	if err != nil {
		// the built-in table is static and valid
		panic(err)
	}
	return m
}

// DefaultCategories returns a copy of the canonical table, safe to modify.
func DefaultCategories() []Category {
	out := make([]Category, len(defaultCategories))
	for i, c := range defaultCategories {
		out[i] = Category{Name: c.Name, Extensions: append([]string(nil), c.Extensions...)}
	}
	return out
}

// 🏭 New builds a Map from a configured table with Other as the fallback.
// Extensions are lower-cased and given a leading dot. When two categories
// claim the same extension the later one wins.
func New(categories []Category) (*Map, error) {
	return NewWithFallback(categories, Other)
}

// 🏭 NewWithFallback is New with a custom folder for unmatched files.
func NewWithFallback(categories []Category, fallback string) (*Map, error) {
	fallback = strings.TrimSpace(fallback)
	if err := validFolderName(fallback); err != nil {
		return nil, errors.Errorf("fallback: %w", err)
	}

	m := &Map{
		categories: make([]Category, 0, len(categories)),
		byExt:      make(map[string]string),
		names:      make(map[string]struct{}),
		other:      fallback,
	}

	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		if err := validFolderName(name); err != nil {
			return nil, err
		}
		if name == fallback {
			return nil, errors.Errorf("category %q is reserved for unmatched files", fallback)
		}
		if _, dup := m.names[name]; dup {
			return nil, errors.Errorf("category %q is defined twice", name)
		}

		exts := make([]string, 0, len(c.Extensions))
		for _, ext := range c.Extensions {
			norm := NormalizeExt(ext)
			if norm == "" {
				continue
			}
			exts = append(exts, norm)
			m.byExt[norm] = name
		}

		m.names[name] = struct{}{}
		m.categories = append(m.categories, Category{Name: name, Extensions: exts})
	}

	m.names[fallback] = struct{}{}

	return m, nil
}

func validFolderName(name string) error {
	if name == "" {
		return errors.Errorf("category name is required")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return errors.Errorf("category %q is not a valid folder name", name)
	}
	return nil
}

// NormalizeExt lower-cases ext and ensures a single leading dot.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	ext = strings.TrimLeft(ext, ".")
	if ext == "" {
		return ""
	}
	return "." + ext
}

// 🔍 Classify returns the category for ext, or the fallback. Lookup is
// case-insensitive.
func (m *Map) Classify(ext string) string {
	if name, ok := m.byExt[strings.ToLower(ext)]; ok {
		return name
	}
	return m.other
}

// Fallback returns the folder for unmatched files.
func (m *Map) Fallback() string {
	return m.other
}

// IsCategory reports whether name is a category folder name, including the
// fallback.
func (m *Map) IsCategory(name string) bool {
	_, ok := m.names[name]
	return ok
}

// Names returns category names in table order with the fallback last.
func (m *Map) Names() []string {
	names := make([]string, 0, len(m.categories)+1)
	for _, c := range m.categories {
		names = append(names, c.Name)
	}
	return append(names, m.other)
}

// Categories returns a copy of the configured table (without the fallback).
func (m *Map) Categories() []Category {
	out := make([]Category, len(m.categories))
	for i, c := range m.categories {
		out[i] = Category{Name: c.Name, Extensions: append([]string(nil), c.Extensions...)}
	}
	return out
}

// Extensions returns the extensions owned by name. After a last-writer-wins
// conflict an extension is only reported for the category that won it.
func (m *Map) Extensions(name string) []string {
	var out []string
	for _, c := range m.categories {
		if c.Name != name {
			continue
		}
		for _, ext := range c.Extensions {
			if m.byExt[ext] == name {
				out = append(out, ext)
			}
		}
	}
	return out
}
