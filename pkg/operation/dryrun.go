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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/sortdir/pkg/status"
)

// 🧪 claimingFileManager answers lookups as if earlier planned moves had
// happened, and turns every mutation into a no-op. It lets a dry run pick
// the same names a real run would.
type claimingFileManager struct {
	status.FileManager
	claimed map[string]struct{}
	vacated map[string]struct{}
}

func newClaimingFileManager(fm status.FileManager) *claimingFileManager {
	return &claimingFileManager{
		FileManager: fm,
		claimed:     make(map[string]struct{}),
		vacated:     make(map[string]struct{}),
	}
}

func (c *claimingFileManager) FileExists(ctx context.Context, path string) (bool, error) {
	if _, ok := c.claimed[path]; ok {
		return true, nil
	}
	if _, ok := c.vacated[path]; ok {
		return false, nil
	}
	return c.FileManager.FileExists(ctx, path)
}

func (c *claimingFileManager) MoveFile(ctx context.Context, src, dst string) error {
	zerolog.Ctx(ctx).Debug().Str("src", src).Str("dst", dst).Msg("dry run: would move")
	delete(c.claimed, src)
	c.vacated[src] = struct{}{}
	delete(c.vacated, dst)
	c.claimed[dst] = struct{}{}
	return nil
}

func (c *claimingFileManager) CreateDir(ctx context.Context, path string) error { return nil }

func (c *claimingFileManager) RemoveDir(ctx context.Context, path string) error { return nil }

func (c *claimingFileManager) DeleteFile(ctx context.Context, path string) error { return nil }

func (c *claimingFileManager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	return nil
}
