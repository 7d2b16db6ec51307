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
	"io"

	"github.com/pterm/pterm"
)

// 🖥️ Console prints messages with a bell prefix
type Console struct {
	success *pterm.PrefixPrinter
	failure *pterm.PrefixPrinter
}

// 🏭 NewConsole creates a console notifier writing to w
func NewConsole(w io.Writer) *Console {
	return &Console{
		success: pterm.Success.WithPrefix(pterm.Prefix{Text: "🔔"}).WithWriter(w),
		failure: pterm.Warning.WithPrefix(pterm.Prefix{Text: "🔔"}).WithWriter(w),
	}
}

func (c *Console) Notify(ctx context.Context, msg Message) error {
	printer := c.failure
	if msg.Success {
		printer = c.success
	}
	printer.Printfln("%s: %s", msg.Title, msg.Body)
	return nil
}
