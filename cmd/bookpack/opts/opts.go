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

package opts

import (
	"context"

	"github.com/walteh/bookpack/pkg/config"
	"github.com/walteh/bookpack/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// 🎛️ RootOpts holds the flags shared by every command
type RootOpts struct {
	ConfigFile string
	Debug      bool
	DryRun     bool
	WriteOPF   bool

	config *config.Config
}

// 📚 Config loads the configuration file once and returns it
func (o *RootOpts) Config(ctx context.Context) (*config.Config, error) {
	if o.config != nil {
		return o.config, nil
	}
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	o.config = cfg
	return cfg, nil
}

// OperationOptions builds the options every operation of one command shares.
func (o *RootOpts) OperationOptions(ctx context.Context) (operation.Options, error) {
	cfg, err := o.Config(ctx)
	if err != nil {
		return operation.Options{}, err
	}

	r, err := operation.NewResolver(ctx, cfg, o.DryRun)
	if err != nil {
		return operation.Options{}, err
	}

	return operation.Options{
		Config:   cfg,
		Resolver: r,
		DryRun:   o.DryRun,
		WriteOPF: o.WriteOPF,
	}, nil
}
