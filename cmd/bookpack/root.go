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

package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/bookpack/cmd/bookpack/commands"
	"github.com/walteh/bookpack/cmd/bookpack/opts"
	"github.com/walteh/bookpack/pkg/log"
	"github.com/walteh/bookpack/pkg/operation"
)

func newRootCmd(o *opts.RootOpts) *cobra.Command {
	root := &cobra.Command{
		Use:   "bookpack",
		Short: "Resolve and assemble the files of an EPUB-style book",
		Long: `bookpack resolves the file requests of a book configuration into an
ordered manifest, writes the manifest into a destination tree and keeps
that tree free of files the manifest does not own.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(setupLogging(cmd.Context(), cmd.ErrOrStderr(), cmd.OutOrStdout(), o.Debug))
			return nil
		},
	}

	addRootFlags(root, o)

	root.AddCommand(
		commands.NewResolveCmd(o),
		commands.NewStatusCmd(o),
		commands.NewCleanCmd(o),
		commands.NewBuildCmd(o),
		newVersionCmd(),
	)

	return root
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "bookpack.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&o.DryRun, "dry-run", "n", false, "resolve against a snapshot and write nothing")
	cmd.PersistentFlags().BoolVar(&o.WriteOPF, "opf", false, "write the package document to "+operation.OPFPath)
}

// setupLogging attaches a zerolog logger and the console logger to ctx
func setupLogging(ctx context.Context, stderr, console io.Writer, debug bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level).With().Timestamp().Logger()
	ctx = zlog.WithContext(ctx)
	return log.NewContext(ctx, log.NewWithZerolog(console, zlog))
}
