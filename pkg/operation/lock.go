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
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	"github.com/walteh/sortdir/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

// 🔒 lockRoot takes the exclusive lock for root without waiting. The
// returned release func unlocks it. The lock file is left in place: removing
// it would let a later run lock a fresh inode while another still holds the
// old one.
func (b *BaseOperation) lockRoot(ctx context.Context, root string) (func(), error) {
	path := filepath.Join(root, plan.DefaultLockName)
	fl := flock.New(path)

	ok, err := fl.TryLock()
	if err != nil {
		return nil, errors.Errorf("acquiring lock %s: %w", path, err)
	}
	if !ok {
		return nil, errors.Errorf("%w: %s", ErrLocked, path)
	}

	return func() {
		if err := fl.Unlock(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("releasing lock")
		}
	}, nil
}
