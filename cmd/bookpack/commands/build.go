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
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/bookpack/cmd/bookpack/opts"
	"github.com/walteh/bookpack/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewBuildCmd creates the build command
func NewBuildCmd(o *opts.RootOpts) *cobra.Command {
	var clean bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write the manifest into the destination",
		Long: `Build resolves the configuration and writes every artifact a processor
handles into the destination, in manifest order. Files whose content is
already final are copied; artifacts that need a transformation are
reported as skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			options, err := o.OperationOptions(ctx)
			if err != nil {
				return err
			}

			build, err := operation.NewBuildOperation(ctx, options)
			if err != nil {
				return errors.Errorf("creating build operation: %w", err)
			}
			ops := []operation.Operation{build}

			var cleanOp *operation.CleanOperation
			if clean {
				cleanOp, err = operation.NewCleanOperation(ctx, options)
				if err != nil {
					return errors.Errorf("creating clean operation: %w", err)
				}
				ops = append(ops, cleanOp)
			}

			if err := operation.NewRunner(zerolog.Ctx(ctx)).Run(ctx, ops...); err != nil {
				return err
			}

			label, removed := "", []string(nil)
			if cleanOp != nil {
				label, removed = "removed", cleanOp.Removed()
			}
			if err := renderSummary(build.Results(), label, removed); err != nil {
				return err
			}

			pterm.Success.Println("build complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&clean, "clean", false, "remove unneeded destination files after building")
	return cmd
}
