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
	"reflect"
	"slices"

	uref "dirpx.dev/tfx/utils/reflect"
)

// Find returns the type bound to rt. A type declared under rt's canonical
// name but not yet defined gets its definition callback run first. Returns
// the unknown type on a miss.
func (r *Registry) Find(rt reflect.Type) Type {
	if rt == nil {
		return Type{}
	}
	if v, ok := r.byKey.Load(rt); ok {
		return Type{v.(*typeInfo)}
	}

	e := r.env.Load()
	name := e.res.ResolveType(rt, e.cfg)
	if name == "" {
		return Type{}
	}
	v, ok := r.byName.Load(name)
	if !ok || !r.runDefinitionCallback(v.(*typeInfo)) {
		return Type{}
	}
	if v, ok := r.byKey.Load(rt); ok {
		return Type{v.(*typeInfo)}
	}
	return Type{}
}

// FindKey returns the type bound to key, which is either a reflect.Type or a
// key registered with BindKey.
func (r *Registry) FindKey(key any) Type {
	if rt, ok := key.(reflect.Type); ok {
		return r.Find(rt)
	}
	if key == nil || !reflect.TypeOf(key).Comparable() {
		return Type{}
	}
	if v, ok := r.byKey.Load(key); ok {
		return Type{v.(*typeInfo)}
	}
	return Type{}
}

// FindValue returns the type of v's dynamic Go type. Unnamed pointer layers
// are stripped when the exact type is not bound.
func (r *Registry) FindValue(v any) Type {
	if v == nil {
		return Type{}
	}
	rt := reflect.TypeOf(v)
	if t := r.Find(rt); t.Valid() {
		return t
	}
	base, err := uref.Normalize(rt, r.Config())
	if err != nil || base == rt {
		return Type{}
	}
	return r.Find(base)
}

// FindByName resolves a root alias first, then a canonical name.
func (r *Registry) FindByName(name string) Type {
	if name == "" {
		return Type{}
	}
	r.mu.RLock()
	target := r.root.aliasToDerived[name]
	r.mu.RUnlock()
	if target != nil {
		return Type{target}
	}
	if v, ok := r.byName.Load(name); ok {
		return Type{v.(*typeInfo)}
	}
	return Type{}
}

// Keys returns the extra native keys bound with BindKey.
func (t Type) Keys() []any {
	if t.info == nil {
		return nil
	}
	t.info.reg.mu.RLock()
	defer t.info.reg.mu.RUnlock()
	return slices.Clone(t.info.keys)
}
