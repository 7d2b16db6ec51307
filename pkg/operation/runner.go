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
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🏃 OperationRunner executes operations one at a time
type OperationRunner struct {
	logger *zerolog.Logger
	mu     sync.Mutex
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger) *OperationRunner {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &OperationRunner{
		logger: logger,
	}
}

// 🏃 Run executes an operation. Concurrent calls are serialized so two
// operations never work on the file system at the same time.
func (r *OperationRunner) Run(ctx context.Context, op Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger := r.logger.With().Str("operation", op.Name()).Logger()
	ctx = logger.WithContext(ctx)

	start := time.Now()
	logger.Debug().Msg("starting operation")

	err := op.Execute(ctx)

	ev := logger.Debug()
	if err != nil {
		ev = logger.Warn().Err(err)
	}
	ev.Dur("duration", time.Since(start)).Msg("operation finished")

	if err != nil {
		return errors.Errorf("executing %s: %w", op.Name(), err)
	}
	return nil
}
