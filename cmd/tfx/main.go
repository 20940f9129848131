/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options are the flags shared by every subcommand.
type options struct {
	manifests []string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "tfx",
		Short:         "Inspect the type hierarchy described by plugin manifests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringArrayVarP(&opts.manifests, "manifest", "m", nil, "plugin manifest (.yaml, .yml, .toml, .json); repeatable")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "diagnostic log level")

	root.AddCommand(newTypesCmd(opts))
	root.AddCommand(newAncestorsCmd(opts))
	root.AddCommand(newDerivedCmd(opts))
	root.AddCommand(newAliasesCmd(opts))
	root.AddCommand(newEntriesCmd(opts))
	return root
}
