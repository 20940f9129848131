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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dirpx.dev/tfx/plugin"
)

func newEntriesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "entries BASE",
		Short: "List the plugin entries deriving from a base type in resolution order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := load(cmd, opts)
			if err != nil {
				return err
			}
			base, err := lookup(p, args[0])
			if err != nil {
				return err
			}
			entries := plugin.NewRegistry(p, base)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRIORITY\tDEFAULT")
			def := entries.DefaultID()
			for _, d := range entries.Descs() {
				mark := ""
				if d.ID == def {
					mark = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", d.ID, d.DisplayName, d.Priority, mark)
			}
			return w.Flush()
		},
	}
}
