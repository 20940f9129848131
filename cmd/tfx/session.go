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

	"dirpx.dev/tfx/builder"
	"dirpx.dev/tfx/config"
	"dirpx.dev/tfx/plug"
	"dirpx.dev/tfx/registry"
)

// load reads the manifests named by opts into a fresh registry.
func load(cmd *cobra.Command, opts *options) (*plug.Registry, error) {
	ms, err := plug.LoadFiles(cmd.Context(), opts.manifests...)
	if err != nil {
		return nil, err
	}
	cfg := config.NewConfig(config.WithLogLevel(opts.logLevel))
	p := plug.New(builder.BuildRegistry(builder.New(), cfg))
	p.RegisterPlugins(ms...)
	return p, nil
}

// lookup resolves name, failing when it is unknown.
func lookup(p *plug.Registry, name string) (registry.Type, error) {
	t := p.Types().FindByName(name)
	if t.IsUnknown() {
		return t, fmt.Errorf("unknown type %q", name)
	}
	return t, nil
}
