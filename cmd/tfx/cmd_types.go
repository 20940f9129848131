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
	"strings"

	"github.com/spf13/cobra"

	"dirpx.dev/tfx/registry"
)

func newTypesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List every declared type with its bases and plugin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := load(cmd, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range p.Types().Types() {
				if t.IsRoot() {
					continue
				}
				line := t.TypeName() + " <- " + joinNames(t.BaseTypes())
				if plugin := p.PluginForType(t); plugin != "" {
					line += " [" + plugin + "]"
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func joinNames(ts []registry.Type) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.TypeName()
	}
	return strings.Join(names, ", ")
}
