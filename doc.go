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

// Package tfx is a runtime type system for Go programs that load
// implementations on demand.
//
// tfx keeps a registry of named types with multiple inheritance. A type may
// be declared by name long before any Go code for it exists (for example,
// because a plugin manifest lists it) and defined later, when its Go type is
// bound. Lookups by Go type, by value or by name return a registry.Type, a
// small comparable handle that answers ancestry queries (IsA,
// AllAncestorTypes in C3 order), resolves aliases, converts references
// between a type and its ancestors and hands out the type's factory.
//
// # Design
//
// The package holds a read-mostly global snapshot (state):
//
//   - Config: how canonical names are derived from Go types (pointer
//     unwrapping, builtin names, package qualification) and the log level.
//
//   - Registry: the process-wide *registry.Registry. Reads are lock-free
//     for name and Go-type lookups; graph queries take a read lock.
//
//   - Builder: builds the registry's canonical-name resolver and its
//     diagnostic reporter for a given Config.
//
// Readers load the current snapshot atomically and never lock:
//
//	t := tfx.Find[MyRenderer]()
//	if t.IsA(tfx.FindByName("Renderer")) { ... }
//
// Writers (SetConfig, SetBuilder, SetRegistry, SetAll) take a short build
// mutex, reconfigure or replace the registry and publish a new snapshot.
// Reconfiguring keeps every registered type; names already assigned never
// change.
//
// # Pinning
//
// SetRegistry installs a caller-owned registry and pins it: later SetConfig
// and SetBuilder calls only update the snapshot and leave the registry's
// resolver and reporter alone until UnpinRegistry is called.
//
// # Diagnostics
//
// Misuse (conflicting definitions, duplicate factories, impossible casts)
// is never fatal. It is reported through the registry's reporter, a zap
// logger by default, and the call returns a safe value such as the unknown
// type or nil.
//
// # Related packages
//
//   - registry: the type registry and the Type handle.
//   - plug: plugin manifests and on-demand plugin loading.
//   - plugin: reference-counted plugin instances.
//   - diag, config, builder, resolver, strategy: supporting layers.
package tfx
