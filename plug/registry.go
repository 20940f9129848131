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

package plug

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"sort"
	"sync"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/registry"
)

var (
	// ErrNoPlugin is returned when no registered plugin provides a type.
	ErrNoPlugin = errors.New("tfx(plug): no plugin provides type")
	// ErrNoLoader is returned when a plugin is demanded before its loader is
	// registered.
	ErrNoLoader = errors.New("tfx(plug): plugin has no loader")
	// ErrNilLoader is reported when RegisterLoader receives nil.
	ErrNilLoader = errors.New("tfx(plug): nil loader")
	// ErrLoadFailed wraps the error returned by a plugin loader.
	ErrLoadFailed = errors.New("tfx(plug): plugin load failed")
	// ErrDuplicateType is reported when two plugins provide the same type.
	ErrDuplicateType = errors.New("tfx(plug): type provided by more than one plugin")
)

// LoaderFunc loads a plugin: it defines the plugin's Go types and attaches
// their factories.
type LoaderFunc func(types *registry.Registry) error

type loadState int

const (
	unloaded loadState = iota
	loading
	loaded
)

type pluginRecord struct {
	name   string
	loader LoaderFunc
	state  loadState
	err    error
	types  []registry.Type
}

type typeRecord struct {
	plugin   *pluginRecord
	metadata map[string]any
}

// Registry binds plugin manifests to a type registry.
type Registry struct {
	types *registry.Registry

	mu      sync.Mutex
	plugins map[string]*pluginRecord
	byType  map[registry.Type]*typeRecord
}

// New returns a Registry declaring plugin types in types.
func New(types *registry.Registry) *Registry {
	return &Registry{
		types:   types,
		plugins: make(map[string]*pluginRecord),
		byType:  make(map[registry.Type]*typeRecord),
	}
}

// Types returns the underlying type registry.
func (p *Registry) Types() *registry.Registry { return p.types }

// RegisterPlugins declares every type listed by the manifests, with its
// bases and aliases, and returns the declared types. A type already
// provided by another plugin is reported and skipped.
func (p *Registry) RegisterPlugins(ms ...*Manifest) []registry.Type {
	var out []registry.Type
	for _, m := range ms {
		if m == nil {
			continue
		}
		for _, info := range m.Plugins {
			out = append(out, p.registerPlugin(info)...)
		}
	}
	return out
}

func (p *Registry) registerPlugin(info PluginInfo) []registry.Type {
	rep := p.types.Reporter()
	rec := p.record(info.Name)

	var out []registry.Type
	for _, name := range sortedKeys(info.Types) {
		meta := info.Types[name]

		if owner := p.ownerOf(name); owner != nil && owner != rec {
			rep.Warning(ErrDuplicateType.Error(), "type", name, "plugin", info.Name, "providedBy", owner.name)
			continue
		}

		baseNames, _ := stringList(meta[KeyBases])
		bases := make([]registry.Type, 0, len(baseNames))
		for _, b := range baseNames {
			bases = append(bases, p.types.Declare(b))
		}
		t := p.types.DeclareWithBases(name, bases, p.define)
		if t.IsUnknown() {
			continue
		}

		aliases, _ := stringMap(meta[KeyAliases])
		for _, base := range sortedKeys(aliases) {
			t.AddAlias(p.types.Declare(base), aliases[base])
		}

		p.mu.Lock()
		if _, ok := p.byType[t]; !ok {
			rec.types = append(rec.types, t)
		}
		p.byType[t] = &typeRecord{plugin: rec, metadata: maps.Clone(meta)}
		p.mu.Unlock()
		out = append(out, t)
	}
	rep.Status("plugin registered", "plugin", info.Name, "types", len(out))
	return out
}

func (p *Registry) record(name string) *pluginRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.plugins[name]
	if !ok {
		rec = &pluginRecord{name: name}
		p.plugins[name] = rec
	}
	return rec
}

func (p *Registry) ownerOf(name string) *pluginRecord {
	t := p.types.FindByName(name)
	if t.IsUnknown() {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if tr, ok := p.byType[t]; ok {
		return tr.plugin
	}
	return nil
}

// define is the definition callback of every plugin-provided type. A
// plugin without a loader yet leaves t pending.
func (p *Registry) define(t registry.Type) error {
	return p.DemandPluginForType(t)
}

// RegisterLoader sets the loader of plugin. It may precede the plugin's
// manifest.
func (p *Registry) RegisterLoader(plugin string, fn LoaderFunc) {
	if fn == nil {
		p.types.Reporter().CodingError(ErrNilLoader, "loader ignored", "plugin", plugin)
		return
	}
	rec := p.record(plugin)
	p.mu.Lock()
	state := rec.state
	if state == unloaded {
		rec.loader = fn
	}
	p.mu.Unlock()
	if state != unloaded {
		p.types.Reporter().Warning("loader ignored, plugin already loaded", "plugin", plugin)
	}
}

// DemandPluginForType loads the plugin providing t unless it is already
// loaded. Loading happens at most once per plugin; later calls return the
// first load's error. Loads run under the type registry's definition lock,
// so a concurrent demand waits for the running load. A demand made by the
// loader itself returns nil at once.
func (p *Registry) DemandPluginForType(t registry.Type) error {
	return p.types.WithDefinitionLock(func() error { return p.demand(t) })
}

func (p *Registry) demand(t registry.Type) error {
	rep := p.types.Reporter()

	p.mu.Lock()
	tr, ok := p.byType[t]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoPlugin, t)
	}
	rec := tr.plugin
	switch rec.state {
	case loaded:
		err := rec.err
		p.mu.Unlock()
		return err
	case loading:
		p.mu.Unlock()
		return nil
	}
	if rec.loader == nil {
		p.mu.Unlock()
		err := fmt.Errorf("%w: %s", ErrNoLoader, rec.name)
		rep.CodingError(err, "cannot load plugin", "plugin", rec.name, "type", t.TypeName())
		return err
	}
	rec.state = loading
	fn := rec.loader
	p.mu.Unlock()

	err := fn(p.types)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrLoadFailed, rec.name, err)
	}

	p.mu.Lock()
	rec.state = loaded
	rec.err = err
	p.mu.Unlock()

	if err != nil {
		rep.CodingError(err, "cannot load plugin", "plugin", rec.name, "type", t.TypeName())
		return err
	}
	rep.Status("plugin loaded", "plugin", rec.name, "demandedBy", t.TypeName())
	return nil
}

// IsLoaded reports whether plugin has been loaded, successfully or not.
func (p *Registry) IsLoaded(plugin string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.plugins[plugin]
	return ok && rec.state == loaded
}

// Plugins returns the names of all known plugins, sorted.
func (p *Registry) Plugins() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.plugins))
	for name := range p.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TypesOf returns the types provided by plugin in registration order.
func (p *Registry) TypesOf(plugin string) []registry.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	if rec, ok := p.plugins[plugin]; ok {
		return append([]registry.Type(nil), rec.types...)
	}
	return nil
}

// PluginForType returns the name of the plugin providing t, "" if none.
func (p *Registry) PluginForType(t registry.Type) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if tr, ok := p.byType[t]; ok {
		return tr.plugin.name
	}
	return ""
}

// Metadata returns a shallow copy of t's manifest entry, nil if t is not
// provided by a plugin.
func (p *Registry) Metadata(t registry.Type) map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	if tr, ok := p.byType[t]; ok {
		return maps.Clone(tr.metadata)
	}
	return nil
}

// MetadataValue returns a single metadata value.
func (p *Registry) MetadataValue(t registry.Type, key string) (any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	tr, ok := p.byType[t]
	if !ok {
		return nil, false
	}
	v, ok := tr.metadata[key]
	return v, ok
}

// DisplayName returns the displayName metadata of t. Otherwise a defined
// type implementing apis.Describer names itself; the type name is the last
// resort.
func (p *Registry) DisplayName(t registry.Type) string {
	if v, ok := p.MetadataValue(t, KeyDisplayName); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if d := describerOf(t.NativeType()); d != nil {
		return d.DisplayName()
	}
	return t.TypeName()
}

func describerOf(rt reflect.Type) apis.Describer {
	if rt == nil {
		return nil
	}
	switch rt.Kind() {
	case reflect.Interface, reflect.Pointer:
		return nil
	}
	if d, ok := reflect.Zero(rt).Interface().(apis.Describer); ok {
		return d
	}
	if d, ok := reflect.New(rt).Interface().(apis.Describer); ok {
		return d
	}
	return nil
}

// Priority returns the priority metadata of t, 0 when absent.
func (p *Registry) Priority(t registry.Type) int {
	if v, ok := p.MetadataValue(t, KeyPriority); ok {
		if n, ok := toInt(v); ok {
			return n
		}
	}
	return 0
}
