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

package builder

import (
	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/diag"
	"dirpx.dev/tfx/registry"
	"dirpx.dev/tfx/resolver"
	"dirpx.dev/tfx/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildResolver builds the canonical-name resolver chain: types that name
// themselves first, reflection-derived names otherwise. The chain is
// stateless, so prev is ignored.
func (b *builder) BuildResolver(_ apis.Config, _ apis.Resolver) apis.Resolver {
	return resolver.New(
		strategy.NewNamerStrategy(),
		strategy.NewReflectStrategy(),
	)
}

// BuildReporter builds a zap-backed reporter at cfg.LogLevel. A previous
// reporter is not reused because the level may have changed.
func (b *builder) BuildReporter(cfg apis.Config, _ apis.Reporter) apis.Reporter {
	return diag.New(diag.NewLogger(cfg.LogLevel))
}

// BuildRegistry constructs a registry wired with the resolver and reporter
// produced by b for cfg.
func BuildRegistry(b apis.Builder, cfg apis.Config) *registry.Registry {
	return registry.New(
		registry.WithConfig(cfg),
		registry.WithResolver(b.BuildResolver(cfg, nil)),
		registry.WithReporter(b.BuildReporter(cfg, nil)),
	)
}

// Reconfigure rebuilds the resolver and reporter of reg for cfg, keeping
// every registered type.
func Reconfigure(b apis.Builder, reg *registry.Registry, cfg apis.Config) {
	res, rep := reg.Collaborators()
	reg.Reconfigure(cfg, b.BuildResolver(cfg, res), b.BuildReporter(cfg, rep))
}
