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

// Package journal records the moves of one organize run so they can be
// undone. The file on disk always holds exactly one run.
package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/sortdir/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// DefaultName is the journal file name inside an organized root.
const DefaultName = ".sortdir.journal.json"

// ActionMove is the only action type written.
const ActionMove = "move"

var (
	// ErrNotFound is returned by Load when no journal exists.
	ErrNotFound = errors.New("journal not found")
	// ErrCorrupt is returned by Load when the journal cannot be parsed.
	ErrCorrupt = errors.New("journal is corrupt")
)

// 📝 Action is one completed file move
type Action struct {
	Type        string    `json:"type"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Timestamp   time.Time `json:"timestamp"`
	RunID       string    `json:"run_id,omitempty"`
}

// NewMove creates a move action stamped with now.
func NewMove(runID, origin, destination string, now time.Time) Action {
	return Action{
		Type:        ActionMove,
		Origin:      origin,
		Destination: destination,
		Timestamp:   now,
		RunID:       runID,
	}
}

// 📒 Journal is the ordered list of moves of one run
type Journal struct {
	actions []Action
}

// New returns an empty journal.
func New() *Journal {
	return &Journal{}
}

// Append records a completed move.
func (j *Journal) Append(a Action) {
	j.actions = append(j.actions, a)
}

// Len returns the number of recorded moves.
func (j *Journal) Len() int {
	return len(j.actions)
}

// Actions returns the moves in chronological order. The slice is a copy.
func (j *Journal) Actions() []Action {
	return append([]Action(nil), j.actions...)
}

// Reversed returns the moves last-first, the order undo replays them in.
func (j *Journal) Reversed() []Action {
	out := make([]Action, len(j.actions))
	for i, a := range j.actions {
		out[len(j.actions)-1-i] = a
	}
	return out
}

// Path returns the journal location for root. A relative name is placed
// inside root; an absolute one is used as is.
func Path(root, name string) string {
	if name == "" {
		name = DefaultName
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(root, name)
}

// IsJournalFile reports whether base is the journal named name or one of the
// temp files written while saving it.
func IsJournalFile(base, name string) bool {
	name = filepath.Base(name)
	if name == "" || name == "." {
		name = DefaultName
	}
	if base == name {
		return true
	}
	return strings.HasPrefix(base, name+".") && strings.HasSuffix(base, ".tmp")
}

// Marshal encodes the journal as an indented JSON array.
func (j *Journal) Marshal() ([]byte, error) {
	actions := j.actions
	if actions == nil {
		actions = []Action{}
	}
	data, err := json.MarshalIndent(actions, "", "  ")
	if err != nil {
		return nil, errors.Errorf("marshaling journal: %w", err)
	}
	return append(data, '\n'), nil
}

// Unmarshal decodes a journal written by Marshal.
func Unmarshal(data []byte) (*Journal, error) {
	var actions []Action
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&actions); err != nil {
		return nil, errors.Errorf("%w: %s", ErrCorrupt, err.Error())
	}

	for i, a := range actions {
		if a.Type != ActionMove {
			return nil, errors.Errorf("%w: action %d has unknown type %q", ErrCorrupt, i, a.Type)
		}
		if a.Origin == "" || a.Destination == "" {
			return nil, errors.Errorf("%w: action %d is missing a path", ErrCorrupt, i)
		}
	}

	return &Journal{actions: actions}, nil
}

// 💾 Save atomically replaces the journal at path
func Save(ctx context.Context, fm status.FileManager, path string, j *Journal) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Int("actions", j.Len()).Msg("writing journal")

	data, err := j.Marshal()
	if err != nil {
		return err
	}

	if err := fm.WriteFileAtomic(ctx, path, data); err != nil {
		return errors.Errorf("writing journal: %w", err)
	}

	return nil
}

// 📖 Load reads the journal at path
func Load(ctx context.Context, fm status.FileManager, path string) (*Journal, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading journal")

	exists, err := fm.FileExists(ctx, path)
	if err != nil {
		return nil, errors.Errorf("checking journal: %w", err)
	}
	if !exists {
		return nil, errors.WithStack(ErrNotFound)
	}

	data, err := fm.ReadFile(ctx, path)
	if err != nil {
		return nil, errors.Errorf("reading journal: %w", err)
	}

	j, err := Unmarshal(data)
	if err != nil {
		return nil, errors.Errorf("parsing journal %s: %w", path, err)
	}

	return j, nil
}

// 🗑️ Remove deletes the journal at path
func Remove(ctx context.Context, fm status.FileManager, path string) error {
	if err := fm.DeleteFile(ctx, path); err != nil {
		return errors.Errorf("removing journal: %w", err)
	}
	return nil
}
