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

	"github.com/spf13/cobra"
)

func newAncestorsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ancestors TYPE",
		Short: "Print a type and its ancestors in resolution order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := load(cmd, opts)
			if err != nil {
				return err
			}
			t, err := lookup(p, args[0])
			if err != nil {
				return err
			}
			for _, a := range t.AllAncestorTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), a.TypeName())
			}
			return nil
		},
	}
}

func newDerivedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "derived TYPE",
		Short: "Print every type deriving from a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := load(cmd, opts)
			if err != nil {
				return err
			}
			t, err := lookup(p, args[0])
			if err != nil {
				return err
			}
			for _, d := range t.AllDerivedTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), d.TypeName())
			}
			return nil
		},
	}
}

func newAliasesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "aliases TYPE",
		Short: "Print the aliases scoped under a base type",
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
			for _, t := range p.Types().Types() {
				for _, alias := range base.Aliases(t) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", alias, t.TypeName())
				}
			}
			return nil
		},
	}
}
