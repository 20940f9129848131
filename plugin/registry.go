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

package plugin

import (
	"reflect"
	"slices"
	"sync"

	"dirpx.dev/tfx/plug"
	"dirpx.dev/tfx/registry"
)

// Registry owns the entries of every type derived from a plugin base type.
// Entries are sorted by Entry.Less, so lower priority values come first.
// Derived types declared later, for example by a plugin loader, are picked
// up by the next call; existing entries keep their reference counts.
type Registry struct {
	plugins *plug.Registry
	base    registry.Type

	mu      sync.Mutex
	seen    int
	entries []*Entry
	byID    map[string]*Entry
}

// NewRegistry returns a Registry for the types deriving from base, reading
// display names and priorities from plugins.
func NewRegistry(plugins *plug.Registry, base registry.Type) *Registry {
	return &Registry{plugins: plugins, base: base}
}

// Define binds T, attaches fn as its plugin factory and returns its type.
func Define[T any](types *registry.Registry, fn InstantiateFunc, bases ...registry.Base) registry.Type {
	t := types.Define(reflect.TypeFor[T](), bases...)
	if t.Valid() {
		SetFactory(t, fn)
	}
	return t
}

// discoverLocked adds entries for derived types declared since the last
// call. The type count only grows, so an unchanged count means nothing new.
func (r *Registry) discoverLocked() {
	types := r.base.Registry()
	if types == nil {
		return
	}
	n := types.Count()
	if n == r.seen {
		return
	}
	r.seen = n
	if r.byID == nil {
		r.byID = make(map[string]*Entry)
	}
	added := false
	for _, t := range r.base.AllDerivedTypes() {
		if _, ok := r.byID[t.TypeName()]; ok {
			continue
		}
		e := NewEntry(t, r.plugins.DisplayName(t), r.plugins.Priority(t))
		r.entries = append(r.entries, e)
		r.byID[e.ID()] = e
		added = true
	}
	if added {
		slices.SortFunc(r.entries, (*Entry).Compare)
	}
}

// Descs describes every entry in order.
func (r *Registry) Descs() []Desc {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discoverLocked()
	out := make([]Desc, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Desc()
	}
	return out
}

// IsRegistered reports whether id names a discovered entry.
func (r *Registry) IsRegistered(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discoverLocked()
	_, ok := r.byID[id]
	return ok
}

// DefaultID returns the ID of the first entry, "" when there is none.
func (r *Registry) DefaultID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discoverLocked()
	if len(r.entries) == 0 {
		return ""
	}
	return r.entries[0].ID()
}

// Get adds a reference to the entry named id and returns its instance. The
// plugin is loaded first if needed. Returns nil for unknown ids or when no
// instance can be built.
func (r *Registry) Get(id string) any {
	r.mu.Lock()
	r.discoverLocked()
	e, ok := r.byID[id]
	r.mu.Unlock()
	if !ok {
		return nil
	}

	// Loading may call back into the type registry; do it unlocked.
	e.Type().EnsureDefined()

	r.mu.Lock()
	defer r.mu.Unlock()
	e.IncRefCount()
	return e.Instance()
}

// AddRef adds a reference to the entry holding instance.
func (r *Registry) AddRef(instance any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e := r.entryFor(instance); e != nil {
		e.IncRefCount()
	}
}

// Release drops a reference to the entry holding instance.
func (r *Registry) Release(instance any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e := r.entryFor(instance); e != nil {
		e.DecRefCount()
		return
	}
	registry.ReporterFor(r.base).Warning("release of unknown plugin instance", "base", r.base.TypeName())
}

// RefCount returns the reference count of the entry named id.
func (r *Registry) RefCount(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discoverLocked()
	if e, ok := r.byID[id]; ok {
		return e.RefCount()
	}
	return 0
}

func (r *Registry) entryFor(instance any) *Entry {
	if instance == nil || !reflect.TypeOf(instance).Comparable() {
		return nil
	}
	for _, e := range r.entries {
		if inst := e.Instance(); inst != nil && reflect.TypeOf(inst) == reflect.TypeOf(instance) && inst == instance {
			return e
		}
	}
	return nil
}
