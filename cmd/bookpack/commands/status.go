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

// ErrChanged is returned by status --check when the destination is out of date.
var ErrChanged = errors.Base("destination is out of date")

// NewStatusCmd creates the status command
func NewStatusCmd(o *opts.RootOpts) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check if the destination matches the manifest",
		Long: `Status resolves the configuration and compares the destination with it.
It will:
1. Render every artifact a processor handles
2. Compare it with the destination file by checksum
3. List destination files no artifact owns`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			options, err := o.OperationOptions(ctx)
			if err != nil {
				return err
			}

			op, err := operation.NewStatusOperation(ctx, options)
			if err != nil {
				return errors.Errorf("creating status operation: %w", err)
			}
			if err := operation.NewRunner(zerolog.Ctx(ctx)).Run(ctx, op); err != nil {
				return err
			}

			report := op.Report()
			if err := renderSummary(report.Artifacts, "unneeded", report.Unneeded); err != nil {
				return err
			}

			if !report.Changed() {
				pterm.Success.Println("destination is up to date")
				return nil
			}
			if check {
				return ErrChanged
			}
			pterm.Warning.Println("destination is out of date")
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "fail when the destination is out of date")
	return cmd
}
