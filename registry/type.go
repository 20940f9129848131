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
	"cmp"
	"reflect"
	"slices"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"dirpx.dev/tfx/apis"
	uref "dirpx.dev/tfx/utils/reflect"
)

// Type is a lightweight, comparable handle to a registry entry. The zero
// value is the unknown type. Handles stay valid for the lifetime of their
// Registry.
type Type struct {
	info *typeInfo
}

type typeInfo struct {
	reg  *Registry
	seq  uint64
	name string

	// Fields below are guarded by reg.mu.
	native       reflect.Type
	class        uref.Classification
	keys         []any
	bases        []*typeInfo
	derived      []*typeInfo
	implicitRoot bool
	casts        map[*typeInfo]CastFunc
	factory      apis.Factory
	callback     DefinitionCallback

	aliasToDerived   map[string]*typeInfo
	aliasesByDerived map[*typeInfo][]string

	// defined is set once the definition callback has succeeded.
	defined atomic.Bool
	// defining is set while the callback runs. Guarded by reg.def.
	defining bool
}

func wrap(infos []*typeInfo) []Type {
	out := make([]Type, len(infos))
	for i, info := range infos {
		out[i] = Type{info}
	}
	return out
}

// IsUnknown reports whether t is the unknown type.
func (t Type) IsUnknown() bool { return t.info == nil }

// Valid reports whether t refers to a registered type.
func (t Type) Valid() bool { return t.info != nil }

// IsRoot reports whether t is its registry's root type.
func (t Type) IsRoot() bool { return t.info != nil && t.info == t.info.reg.root }

// Registry returns the owning registry, nil for the unknown type.
func (t Type) Registry() *Registry {
	if t.info == nil {
		return nil
	}
	return t.info.reg
}

// TypeName returns the canonical name.
func (t Type) TypeName() string {
	if t.info == nil {
		return UnknownTypeName
	}
	return t.info.name
}

func (t Type) String() string { return t.TypeName() }

// Hash returns a stable hash of the canonical name.
func (t Type) Hash() uint64 {
	if t.info == nil {
		return 0
	}
	return xxhash.Sum64String(t.info.name)
}

// Less orders types by creation within a registry. The unknown type sorts
// first.
func (t Type) Less(o Type) bool { return t.Compare(o) < 0 }

// Compare returns -1, 0 or +1 following creation order, then name, then
// the order in which the owning registries were created. It returns 0 only
// for equal types.
func (t Type) Compare(o Type) int {
	if c := cmp.Compare(t.seq(), o.seq()); c != 0 {
		return c
	}
	if c := cmp.Compare(t.TypeName(), o.TypeName()); c != 0 {
		return c
	}
	return cmp.Compare(t.regID(), o.regID())
}

func (t Type) regID() uint64 {
	if t.info == nil {
		return 0
	}
	return t.info.reg.id
}

func (t Type) seq() uint64 {
	if t.info == nil {
		return 0
	}
	return t.info.seq
}

// NativeType returns the bound Go type, nil until the type is defined.
func (t Type) NativeType() reflect.Type {
	if t.info == nil {
		return nil
	}
	t.info.reg.mu.RLock()
	defer t.info.reg.mu.RUnlock()
	return t.info.native
}

// IsDefined reports whether a Go type has been bound.
func (t Type) IsDefined() bool { return t.NativeType() != nil }

// Size returns the size of the bound Go type, 0 when undefined.
func (t Type) Size() uintptr { return t.class().Size }

// IsPlainOldData reports whether values can be copied bytewise.
func (t Type) IsPlainOldData() bool { return t.class().PlainOldData }

// IsEnum reports whether the bound Go type is a named integer type.
func (t Type) IsEnum() bool { return t.class().Enum }

func (t Type) class() uref.Classification {
	if t.info == nil {
		return uref.Classification{}
	}
	t.info.reg.mu.RLock()
	defer t.info.reg.mu.RUnlock()
	return t.info.class
}

// IsA reports whether t is o or derives from o. Always false when either
// side is unknown.
func (t Type) IsA(o Type) bool {
	if t.info == nil || o.info == nil {
		return false
	}
	if t.info == o.info {
		return true
	}
	if t.info.reg != o.info.reg {
		return false
	}
	t.info.reg.mu.RLock()
	defer t.info.reg.mu.RUnlock()
	return t.info.isALocked(o.info)
}

func (info *typeInfo) isALocked(target *typeInfo) bool {
	if info == target {
		return true
	}
	seen := map[*typeInfo]bool{info: true}
	stack := slices.Clone(info.bases)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == target {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		stack = append(stack, n.bases...)
	}
	return false
}

// BaseTypes returns the direct bases in declaration order.
func (t Type) BaseTypes() []Type {
	if t.info == nil {
		return nil
	}
	t.info.reg.mu.RLock()
	defer t.info.reg.mu.RUnlock()
	return wrap(t.info.bases)
}

// DirectlyDerivedTypes returns the types naming t as a direct base.
func (t Type) DirectlyDerivedTypes() []Type {
	if t.info == nil {
		return nil
	}
	t.info.reg.mu.RLock()
	defer t.info.reg.mu.RUnlock()
	return wrap(t.info.derived)
}

// AllDerivedTypes returns every transitive descendant of t, excluding t,
// breadth first and without duplicates.
func (t Type) AllDerivedTypes() []Type {
	if t.info == nil {
		return nil
	}
	t.info.reg.mu.RLock()
	defer t.info.reg.mu.RUnlock()

	seen := map[*typeInfo]bool{t.info: true}
	var out []*typeInfo
	queue := slices.Clone(t.info.derived)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
		queue = append(queue, n.derived...)
	}
	return wrap(out)
}

// DefineType binds T and returns its Type.
func DefineType[T any](r *Registry, bases ...Base) Type {
	return r.Define(reflect.TypeFor[T](), bases...)
}

// FindType returns the Type bound to T.
func FindType[T any](r *Registry) Type {
	return r.Find(reflect.TypeFor[T]())
}

// IsA reports whether t is, or derives from, the type bound to T.
func IsA[T any](r *Registry, t Type) bool {
	return t.IsA(FindType[T](r))
}
