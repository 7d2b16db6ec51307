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
	"fmt"
	"path/filepath"
)

// FormatProgress renders done/total with a percentage. The hourglass turns
// into a check mark once done reaches total.
func FormatProgress(done, total int) string {
	pct := 0.0
	switch {
	case total > 0:
		pct = float64(done) / float64(total) * 100
	case done > 0:
		pct = 100
	}

	icon := "⏳"
	if done >= total {
		icon = "✅"
	}
	return fmt.Sprintf("%s Progress: %d/%d (%.0f%%)", icon, done, total, pct)
}

// FormatError renders one file that could not be moved. dst is the
// attempted destination and may be empty.
func FormatError(path, dst string, err error) string {
	if err == nil {
		return ""
	}
	if dst == "" {
		return fmt.Sprintf("❌ %s: %v", path, err)
	}
	return fmt.Sprintf("❌ %s → %s: %v", path, filepath.Join(filepath.Base(filepath.Dir(dst)), filepath.Base(dst)), err)
}
