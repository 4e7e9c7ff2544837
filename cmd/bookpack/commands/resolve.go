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

package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/bookpack/cmd/bookpack/opts"
	"github.com/walteh/bookpack/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewResolveCmd creates the resolve command
func NewResolveCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the configured files into a manifest",
		Long: `Resolve matches every configured file request against the source tree
and prints the resulting manifest in order. Nothing is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			options, err := o.OperationOptions(ctx)
			if err != nil {
				return err
			}

			op, err := operation.NewResolveOperation(ctx, options)
			if err != nil {
				return errors.Errorf("creating resolve operation: %w", err)
			}
			if err := operation.NewRunner(zerolog.Ctx(ctx)).Run(ctx, op); err != nil {
				return err
			}

			return renderManifest(op.Artifacts())
		},
	}
}
