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


package config

import (
	"context"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/walteh/sortdir/pkg/category"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return hasExt(filename, ".hcl")
}

// 📝 Parse parses the config from HCL. Categories are labelled blocks:
//
//	category "Imagenes" {
//	  extensions = [".jpg", ".png"]
//	}
//
// Expressions can use the variables home and hostname.
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "sortdir.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Define HCL schema
	type hclConfig struct {
		Categories      []category.Category `hcl:"category,block"`
		Fallback        string              `hcl:"fallback,optional"`
		Ignore          []string            `hcl:"ignore,optional"`
		Journal         string              `hcl:"journal,optional"`
		CheckpointEvery int                 `hcl:"checkpoint_every,optional"`
		Notify          *struct {
			Desktop     *bool  `hcl:"desktop,optional"`
			NtfyTopic   string `hcl:"ntfy_topic,optional"`
			NtfyTimeout string `hcl:"ntfy_timeout,optional"`
		} `hcl:"notify,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(ctx), &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Categories:      hclCfg.Categories,
		Fallback:        hclCfg.Fallback,
		Ignore:          hclCfg.Ignore,
		Journal:         hclCfg.Journal,
		CheckpointEvery: hclCfg.CheckpointEvery,
	}
	if hclCfg.Notify != nil {
		cfg.Notify = NotifyConfig{
			Desktop:     hclCfg.Notify.Desktop,
			NtfyTopic:   hclCfg.Notify.NtfyTopic,
			NtfyTimeout: hclCfg.Notify.NtfyTimeout,
		}
	}

	return cfg, nil
}

func evalContext(ctx context.Context) *hcl.EvalContext {
	vars := map[string]cty.Value{
		"home":     cty.StringVal(""),
		"hostname": cty.StringVal(""),
	}
	if home, err := os.UserHomeDir(); err == nil {
		vars["home"] = cty.StringVal(home)
	} else {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("no home directory for HCL context")
	}
	if host, err := os.Hostname(); err == nil {
		vars["hostname"] = cty.StringVal(host)
	}
	return &hcl.EvalContext{Variables: vars}
}
