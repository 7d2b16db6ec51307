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
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// 🔀 Resolve returns a destination that does not clobber an existing file.
//
// With overwrite enabled the proposed path is returned as is. Otherwise the
// first free name out of stem_1.ext, stem_2.ext, ... is returned. A lookup
// error is treated as a free slot; the move that follows reports the real
// cause.
func Resolve(ctx context.Context, fm FileManager, proposed string, overwrite bool) string {
	if overwrite {
		return proposed
	}

	if !occupied(ctx, fm, proposed) {
		return proposed
	}

	dir := filepath.Dir(proposed)
	stem, ext := SplitExt(filepath.Base(proposed))

	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
		if !occupied(ctx, fm, candidate) {
			return candidate
		}
	}
}

// SplitExt splits a file name at its last dot. A dot in first or last
// position does not start an extension, so ".bashrc" and "notes." have none.
func SplitExt(name string) (stem, ext string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return name, ""
	}
	return name[:i], name[i:]
}

// Ext returns the extension of name as SplitExt sees it.
func Ext(name string) string {
	_, ext := SplitExt(filepath.Base(name))
	return ext
}

func occupied(ctx context.Context, fm FileManager, path string) bool {
	exists, err := fm.FileExists(ctx, path)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("checking destination")
		return false
	}
	return exists
}
