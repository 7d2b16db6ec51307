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

package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// CommandRunner runs an external program.
type CommandRunner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return errors.Errorf("running %s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// 🖥️ Desktop shows a native notification: notify-send on linux,
// terminal-notifier or osascript on darwin, a MessageBox on windows. When
// the native tool is missing or fails the message goes to Fallback.
type Desktop struct {
	GOOS     string
	Run      CommandRunner
	Fallback Notifier
}

// 🏭 NewDesktop creates a desktop notifier for the running OS
func NewDesktop(fallback Notifier) *Desktop {
	return &Desktop{
		GOOS:     runtime.GOOS,
		Run:      execRunner,
		Fallback: fallback,
	}
}

func (d *Desktop) Notify(ctx context.Context, msg Message) error {
	err := d.native(ctx, msg)
	if err == nil {
		return nil
	}

	zerolog.Ctx(ctx).Debug().Err(err).Str("os", d.GOOS).Msg("native notification failed, using fallback")
	if d.Fallback == nil {
		return err
	}
	return d.Fallback.Notify(ctx, msg)
}

func (d *Desktop) native(ctx context.Context, msg Message) error {
	switch d.GOOS {
	case "linux":
		return d.Run(ctx, "notify-send", msg.Title, msg.Body, "--icon=dialog-information")
	case "darwin":
		err := d.Run(ctx, "terminal-notifier", "-title", msg.Title, "-message", msg.Body, "-sound", "default")
		if err == nil {
			return nil
		}
		script := fmt.Sprintf("display notification %s with title %s", appleScriptString(msg.Body), appleScriptString(msg.Title))
		return d.Run(ctx, "osascript", "-e", script)
	case "windows":
		script := fmt.Sprintf("Add-Type -AssemblyName System.Windows.Forms; [System.Windows.Forms.MessageBox]::Show(%s, %s)",
			powerShellString(msg.Body), powerShellString(msg.Title))
		return d.Run(ctx, "powershell", "-NoProfile", "-Command", script)
	default:
		return errors.Errorf("no desktop notifications on %s", d.GOOS)
	}
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func powerShellString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
