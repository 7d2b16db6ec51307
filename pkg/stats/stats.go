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

// Package stats counts organized files per category and renders the summary
// shown after a run.
package stats

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// 📊 Statistics maps category names to the number of files placed there
type Statistics struct {
	order  []string
	counts map[string]int
}

// 🏭 New creates statistics with every name at zero, in the given order
func New(names []string) *Statistics {
	s := &Statistics{counts: make(map[string]int, len(names))}
	for _, n := range names {
		if _, ok := s.counts[n]; ok {
			continue
		}
		s.order = append(s.order, n)
		s.counts[n] = 0
	}
	return s
}

// Add increments the count of name. Unknown names are appended.
func (s *Statistics) Add(name string) {
	if _, ok := s.counts[name]; !ok {
		s.order = append(s.order, name)
	}
	s.counts[name]++
}

// Get returns the count for name.
func (s *Statistics) Get(name string) int {
	return s.counts[name]
}

// Total returns the sum over all categories.
func (s *Statistics) Total() int {
	total := 0
	for _, c := range s.counts {
		total += c
	}
	return total
}

// Categories returns the names in display order.
func (s *Statistics) Categories() []string {
	return append([]string(nil), s.order...)
}

// Map returns a copy of the counts.
func (s *Statistics) Map() map[string]int {
	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// Percent returns the share of name in the total, 0 when the total is 0.
func (s *Statistics) Percent(name string) float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(s.counts[name]) / float64(total) * 100
}

// 📋 Summarize renders the total and a per-category table. Categories with
// no files are left out; percentages have one decimal.
func Summarize(s *Statistics) string {
	var sb strings.Builder

	total := s.Total()
	fmt.Fprintf(&sb, "📊 Total files organized: %d\n", total)
	if total == 0 {
		return sb.String()
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Category", "Files", "Share"})
	for _, name := range s.order {
		n := s.counts[name]
		if n == 0 {
			continue
		}
		tw.AppendRow(table.Row{name, n, fmt.Sprintf("%.1f%%", s.Percent(name))})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	sb.WriteString(tw.Render())
	sb.WriteString("\n")
	return sb.String()
}
