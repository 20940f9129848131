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

package registry

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/config"
	"dirpx.dev/tfx/diag"
	"dirpx.dev/tfx/resolver"
	"dirpx.dev/tfx/strategy"
)

const (
	// RootTypeName is the canonical name of the implicit universal ancestor.
	RootTypeName = "tfx.Root"
	// UnknownTypeName is reported by the zero Type.
	UnknownTypeName = "tfx.Unknown"
)

var (
	// ErrEmptyName is reported when a type or alias name is empty.
	ErrEmptyName = errors.New("tfx(registry): empty type name")
	// ErrNilType is reported when a nil reflect.Type is provided.
	ErrNilType = errors.New("tfx(registry): nil reflect.Type provided")
	// ErrUnnamedType is reported when no canonical name can be derived for a Go type.
	ErrUnnamedType = errors.New("tfx(registry): cannot derive a canonical name")
	// ErrForeignType is reported when a Type from another registry is used.
	ErrForeignType = errors.New("tfx(registry): type belongs to another registry")
	// ErrUnknownBase is reported when a declared base type is unknown.
	ErrUnknownBase = errors.New("tfx(registry): base type is unknown")
	// ErrSelfBase is reported when a type is declared as its own base.
	ErrSelfBase = errors.New("tfx(registry): type cannot derive from itself")
	// ErrCyclicBase is reported when a base would make the hierarchy cyclic.
	ErrCyclicBase = errors.New("tfx(registry): base would create an inheritance cycle")
	// ErrRootBases is reported when bases are declared for the root type.
	ErrRootBases = errors.New("tfx(registry): root type cannot have bases")
	// ErrNameIsAlias is reported when declaring a name used as a root alias.
	ErrNameIsAlias = errors.New("tfx(registry): name is already used as an alias")
	// ErrConflictingCallback is reported when a second, different definition
	// callback is supplied for a type.
	ErrConflictingCallback = errors.New("tfx(registry): type already has a definition callback")
	// ErrConflictingDefinition is reported when a type is redefined with a
	// different Go type.
	ErrConflictingDefinition = errors.New("tfx(registry): conflicting native type binding")
	// ErrKeyInUse is reported when a native key is already bound to another type.
	ErrKeyInUse = errors.New("tfx(registry): native key is bound to another type")
	// ErrKeyNotComparable is reported for native keys that cannot index a map.
	ErrKeyNotComparable = errors.New("tfx(registry): native key is not comparable")
	// ErrInvalidAlias is reported when an alias refers to the unknown type.
	ErrInvalidAlias = errors.New("tfx(registry): invalid alias")
	// ErrAliasConflict is reported when an alias is already set to another type.
	ErrAliasConflict = errors.New("tfx(registry): alias is already in use")
	// ErrAliasShadowsType is reported when a root alias equals a type name.
	ErrAliasShadowsType = errors.New("tfx(registry): alias shadows a type name")
	// ErrNilFactory is reported when SetFactory receives nil.
	ErrNilFactory = errors.New("tfx(registry): nil factory")
	// ErrFactoryAlreadySet is reported when a type already has a factory.
	ErrFactoryAlreadySet = errors.New("tfx(registry): factory already set")
	// ErrUnknownType is reported when an operation requires a known type.
	ErrUnknownType = errors.New("tfx(registry): operation on the unknown type")
	// ErrNotAncestor is reported when a cast names a type that is not an ancestor.
	ErrNotAncestor = errors.New("tfx(registry): type is not an ancestor")
	// ErrMissingCast is reported when an inheritance edge has no cast function.
	ErrMissingCast = errors.New("tfx(registry): no cast function for base")
	// ErrCastFailed is reported when a cast function rejects its input.
	ErrCastFailed = errors.New("tfx(registry): cast failed")
	// ErrInconsistentHierarchy is reported when C3 linearization fails.
	ErrInconsistentHierarchy = errors.New("tfx(registry): inconsistent inheritance hierarchy")
)

// DefinitionCallback completes a declared type on first demand, for
// example by loading the plugin that defines it. Once it returns nil it is
// never called again; an error leaves the type pending so a later lookup
// retries.
type DefinitionCallback func(Type) error

// Option configures a Registry at construction.
type Option func(*environment)

// WithConfig sets the naming and lookup configuration.
func WithConfig(cfg apis.Config) Option {
	return func(e *environment) { e.cfg = cfg }
}

// WithResolver sets the canonical-name resolver.
func WithResolver(res apis.Resolver) Option {
	return func(e *environment) {
		if res != nil {
			e.res = res
		}
	}
}

// WithReporter sets the diagnostic channel.
func WithReporter(rep apis.Reporter) Option {
	return func(e *environment) {
		if rep != nil {
			e.rep = rep
		}
	}
}

// environment is the swappable set of collaborators. Published atomically;
// never mutated once stored.
type environment struct {
	cfg apis.Config
	res apis.Resolver
	rep apis.Reporter
}

// Registry is the authoritative store of declared and defined types.
//
// Name and native-key lookups are lock-free (sync.Map). Graph mutation and
// graph queries are guarded by a single RWMutex. Entries are never removed.
type Registry struct {
	// id orders registries by creation.
	id  uint64
	env atomic.Pointer[environment]

	// mu guards every mutable typeInfo field, seq and all.
	mu   sync.RWMutex
	seq  uint64
	all  []*typeInfo
	root *typeInfo

	// byName maps canonical name to *typeInfo.
	byName sync.Map
	// byKey maps native keys (reflect.Type and bound extras) to *typeInfo.
	byKey sync.Map

	// def serializes definition callbacks.
	def defLock

	// bound answers names for native types already bound in byKey.
	bound apis.Strategy

	notices noticeHub
}

var registryIDs atomic.Uint64

// Ensure Registry implements apis.Lookup.
var _ apis.Lookup = (*Registry)(nil)

// New constructs an empty Registry holding only the root type.
func New(opts ...Option) *Registry {
	env := &environment{
		cfg: config.DefaultConfig(),
		res: resolver.New(strategy.NewNamerStrategy(), strategy.NewReflectStrategy()),
		rep: diag.Nop(),
	}
	for _, opt := range opts {
		opt(env)
	}
	r := &Registry{id: registryIDs.Add(1)}
	r.env.Store(env)
	r.bound = strategy.NewRegistryStrategy(r)

	r.mu.Lock()
	r.root = r.newInfoLocked(RootTypeName)
	r.mu.Unlock()
	return r
}

// Config returns the active configuration.
func (r *Registry) Config() apis.Config {
	return r.env.Load().cfg
}

// Reporter returns the active diagnostic channel.
func (r *Registry) Reporter() apis.Reporter {
	return r.env.Load().rep
}

// Collaborators returns the active resolver and reporter.
func (r *Registry) Collaborators() (apis.Resolver, apis.Reporter) {
	e := r.env.Load()
	return e.res, e.rep
}

// Reconfigure swaps configuration and collaborators. Registered types are
// kept; canonical names already assigned never change. Nil collaborators
// keep the current ones.
func (r *Registry) Reconfigure(cfg apis.Config, res apis.Resolver, rep apis.Reporter) {
	old := r.env.Load()
	next := &environment{cfg: cfg, res: old.res, rep: old.rep}
	if res != nil {
		next.res = res
	}
	if rep != nil {
		next.rep = rep
	}
	r.env.Store(next)
}

// Root returns the implicit universal ancestor.
func (r *Registry) Root() Type {
	return Type{r.root}
}

// Types returns every registered type, root included, in creation order.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return wrap(r.all)
}

// Count returns the number of registered types, root included.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.all)
}

// Lookup returns the canonical name rt is bound to.
func (r *Registry) Lookup(rt reflect.Type) (string, bool) {
	if rt == nil {
		return "", false
	}
	if v, ok := r.byKey.Load(rt); ok {
		return v.(*typeInfo).name, true
	}
	return "", false
}

// CanonicalTypeName returns the name rt (or the named type under its pointer
// layers) is registered under, or the name the resolver derives for it.
// Empty when rt cannot be named.
func (r *Registry) CanonicalTypeName(rt reflect.Type) string {
	if rt == nil {
		return ""
	}
	e := r.env.Load()
	if name, ok := r.bound.TryResolveType(rt, e.cfg); ok {
		return name
	}
	return e.res.ResolveType(rt, e.cfg)
}

// newInfoLocked allocates and indexes a new entry. r.mu must be held.
func (r *Registry) newInfoLocked(name string) *typeInfo {
	r.seq++
	info := &typeInfo{reg: r, seq: r.seq, name: name}
	r.all = append(r.all, info)
	r.byName.Store(name, info)
	return info
}

// report is a deferred diagnostic, flushed once locks are released.
type report struct {
	err error
	msg string
	kv  []any
}

func (r *Registry) flush(reports []report) {
	if len(reports) == 0 {
		return
	}
	rep := r.Reporter()
	for _, rp := range reports {
		rep.CodingError(rp.err, rp.msg, rp.kv...)
	}
}

// fallback receives diagnostics about the unknown type, which belongs to no
// registry.
var fallback atomic.Pointer[apis.Reporter]

func init() {
	var rep apis.Reporter = diag.Nop()
	fallback.Store(&rep)
}

// SetFallbackReporter sets where misuse of the unknown type is reported.
func SetFallbackReporter(rep apis.Reporter) {
	if rep == nil {
		return
	}
	fallback.Store(&rep)
}

// ReporterFor returns the reporter of t's registry, or the fallback reporter
// for the unknown type.
func ReporterFor(t Type) apis.Reporter {
	if t.info == nil {
		return *fallback.Load()
	}
	return t.info.reg.Reporter()
}
