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

package tfx

import (
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/builder"
	"dirpx.dev/tfx/config"
	"dirpx.dev/tfx/registry"
)

// init initializes the global tfx state.
func init() {
	cfg := config.DefaultConfig()
	b := builder.New()
	reg := builder.BuildRegistry(b, cfg)
	publish(&state{cfg: cfg, reg: reg, bld: b})
}

// Declare declares name in the global registry.
func Declare(name string) registry.Type {
	return st.Load().reg.Declare(name)
}

// DeclareWithBases declares name with bases and a definition callback in the
// global registry.
func DeclareWithBases(name string, bases []registry.Type, cb registry.DefinitionCallback) registry.Type {
	return st.Load().reg.DeclareWithBases(name, bases, cb)
}

// Define binds T in the global registry.
func Define[T any](bases ...registry.Base) registry.Type {
	return registry.DefineType[T](st.Load().reg, bases...)
}

// DefineNamed binds T under name in the global registry.
func DefineNamed[T any](name string, bases ...registry.Base) registry.Type {
	return st.Load().reg.DefineNamed(name, reflect.TypeFor[T](), bases...)
}

// Find returns the global type bound to T.
func Find[T any]() registry.Type {
	return registry.FindType[T](st.Load().reg)
}

// FindValue returns the global type of v's dynamic type.
func FindValue(v any) registry.Type {
	return st.Load().reg.FindValue(v)
}

// FindByName resolves a root alias or canonical name in the global registry.
func FindByName(name string) registry.Type {
	return st.Load().reg.FindByName(name)
}

// Root returns the root type of the global registry.
func Root() registry.Type {
	return st.Load().reg.Root()
}

// TypeName returns the canonical name of T in the global registry.
func TypeName[T any]() string {
	return st.Load().reg.CanonicalTypeName(reflect.TypeFor[T]())
}

// Subscribe registers fn for notices of the current global registry.
func Subscribe(fn func(registry.Notice)) *registry.Subscription {
	return st.Load().reg.Subscribe(fn)
}

// Config returns the global tfx configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration. An unpinned registry is
// reconfigured through the builder and keeps its types.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	if !old.preg {
		builder.Reconfigure(old.bld, old.reg, cfg)
	}
	publish(&state{cfg: cfg, reg: old.reg, bld: old.bld, preg: old.preg})
}

// Registry returns the global registry.
func Registry() *registry.Registry {
	return st.Load().reg
}

// SetRegistry replaces and pins the global registry. A pinned registry is
// never reconfigured by SetConfig or SetBuilder.
func SetRegistry(reg *registry.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	publish(&state{cfg: old.cfg, reg: reg, bld: old.bld, preg: true})
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder and reconfigures an unpinned registry
// with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	if !old.preg {
		builder.Reconfigure(b, old.reg, old.cfg)
	}
	publish(&state{cfg: old.cfg, reg: old.reg, bld: b, preg: old.preg})
}

// SetAll replaces the global state in one step. Nil cfg or bld keep the
// current ones. A nil reg builds a fresh, unpinned registry; a non-nil reg
// is pinned.
func SetAll(cfg *apis.Config, reg *registry.Registry, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}
	npreg := reg != nil
	if reg == nil {
		reg = builder.BuildRegistry(nbld, ncfg)
	}
	publish(&state{cfg: ncfg, reg: reg, bld: nbld, preg: npreg})
}

// IsRegistryPinned reports whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops SetConfig and SetBuilder from reconfiguring the global
// registry.
func PinRegistry() {
	setPinned(true)
}

// UnpinRegistry lets SetConfig and SetBuilder reconfigure the global
// registry again.
func UnpinRegistry() {
	setPinned(false)
}

func setPinned(pinned bool) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	publish(&state{cfg: old.cfg, reg: old.reg, bld: old.bld, preg: pinned})
}

// publish stores s and points unknown-type diagnostics at its registry.
func publish(s *state) {
	registry.SetFallbackReporter(s.reg.Reporter())
	st.Store(s)
}

// buildMu serializes writers so we never publish partially-built snapshots.
var buildMu sync.Mutex

// st is the global tfx state.
var st atomic.Pointer[state]

// state is the global tfx state snapshot.
// Immutable once published via st.Store; writers create a new state and
// swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// reg is the global registry.
	reg *registry.Registry
	// bld builds the registry's resolver and reporter.
	bld apis.Builder
	// preg indicates whether reg is pinned.
	preg bool
}
