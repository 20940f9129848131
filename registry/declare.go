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

// Declare returns the type named name, creating it as a direct child of the
// root when it does not exist yet.
func (r *Registry) Declare(name string) Type {
	return r.DeclareWithBases(name, nil, nil)
}

// DeclareWithBases declares name with the given bases and definition
// callback. Redeclaration is additive: new bases are appended, known ones
// are kept. The implicit root edge is replaced by the first explicit base.
//
// Misuse is reported to the reporter and the offending part is skipped:
// an empty name yields the unknown type, unknown or cyclic bases are
// ignored, and a second, different callback is rejected. Declaring a name
// that is a root alias returns the aliased type unchanged.
func (r *Registry) DeclareWithBases(name string, bases []Type, cb DefinitionCallback) Type {
	if name == "" {
		r.Reporter().CodingError(ErrEmptyName, "cannot declare a type without a name")
		return Type{}
	}

	var reports []report
	r.mu.Lock()
	if target, ok := r.root.aliasToDerived[name]; ok {
		r.mu.Unlock()
		r.Reporter().CodingError(ErrNameIsAlias, "cannot declare type", "name", name, "aliasOf", target.name)
		return Type{target}
	}

	var info *typeInfo
	created := false
	if v, ok := r.byName.Load(name); ok {
		info = v.(*typeInfo)
	} else {
		info = r.newInfoLocked(name)
		info.bases = []*typeInfo{r.root}
		info.implicitRoot = true
		r.root.derived = append(r.root.derived, info)
		created = true
	}

	for _, b := range bases {
		if rp, ok := r.addBaseLocked(info, b); !ok {
			reports = append(reports, rp)
		}
	}

	if cb != nil {
		switch {
		case info.callback == nil:
			info.callback = cb
		case !sameFunc(info.callback, cb):
			reports = append(reports, report{ErrConflictingCallback, "definition callback ignored", []any{"type", name}})
		}
	}
	r.mu.Unlock()

	r.flush(reports)
	t := Type{info}
	if created {
		r.notices.publish(Notice{Type: t})
	}
	return t
}

// addBaseLocked links info below b. r.mu must be held.
func (r *Registry) addBaseLocked(info *typeInfo, b Type) (report, bool) {
	switch {
	case b.info == nil:
		return report{ErrUnknownBase, "base ignored", []any{"type", info.name}}, false
	case b.info.reg != r:
		return report{ErrForeignType, "base ignored", []any{"type", info.name, "base", b.info.name}}, false
	case info == r.root:
		return report{ErrRootBases, "base ignored", []any{"base", b.info.name}}, false
	case b.info == info:
		return report{ErrSelfBase, "base ignored", []any{"type", info.name}}, false
	case b.info == r.root:
		info.implicitRoot = false
		return report{}, true
	case slices.Contains(info.bases, b.info):
		return report{}, true
	case b.info.isALocked(info):
		return report{ErrCyclicBase, "base ignored", []any{"type", info.name, "base", b.info.name}}, false
	}

	if info.implicitRoot {
		info.bases = slices.DeleteFunc(info.bases, func(n *typeInfo) bool { return n == r.root })
		r.root.derived = slices.DeleteFunc(r.root.derived, func(n *typeInfo) bool { return n == info })
		info.implicitRoot = false
	}
	info.bases = append(info.bases, b.info)
	b.info.derived = append(b.info.derived, info)
	return report{}, true
}

// sameFunc treats callbacks sharing code as identical. Closures created from
// the same literal compare equal.
func sameFunc(a, b DefinitionCallback) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// Define binds rt under its canonical name and links its bases, declaring
// them by their canonical names where needed. Casts supplied with bases are
// recorded for the matching inheritance edges.
func (r *Registry) Define(rt reflect.Type, bases ...Base) Type {
	if rt == nil {
		r.Reporter().CodingError(ErrNilType, "cannot define type")
		return Type{}
	}
	name := r.CanonicalTypeName(rt)
	if name == "" {
		r.Reporter().CodingError(ErrUnnamedType, "cannot define type", "goType", rt.String())
		return Type{}
	}
	return r.DefineNamed(name, rt, bases...)
}

// DefineNamed is Define with an explicit canonical name.
func (r *Registry) DefineNamed(name string, rt reflect.Type, bases ...Base) Type {
	if rt == nil {
		r.Reporter().CodingError(ErrNilType, "cannot define type", "name", name)
		return Type{}
	}

	type edge struct {
		base Type
		cast CastFunc
	}
	edges := make([]edge, 0, len(bases))
	baseTypes := make([]Type, 0, len(bases))
	for _, b := range bases {
		if b.Type == nil {
			r.Reporter().CodingError(ErrNilType, "base ignored", "type", name)
			continue
		}
		bn := r.CanonicalTypeName(b.Type)
		if bn == "" {
			r.Reporter().CodingError(ErrUnnamedType, "base ignored", "type", name, "goType", b.Type.String())
			continue
		}
		bt := r.Declare(bn)
		edges = append(edges, edge{bt, b.Cast})
		baseTypes = append(baseTypes, bt)
	}

	t := r.DeclareWithBases(name, baseTypes, nil)
	if t.IsUnknown() {
		return t
	}

	var reports []report
	r.mu.Lock()
	info := t.info
	switch {
	case info.native == rt:
	case info.native != nil:
		reports = append(reports, report{ErrConflictingDefinition, "type already defined",
			[]any{"type", name, "bound", info.native.String(), "goType", rt.String()}})
	default:
		if v, loaded := r.byKey.LoadOrStore(rt, info); loaded && v.(*typeInfo) != info {
			reports = append(reports, report{ErrKeyInUse, "cannot define type",
				[]any{"type", name, "goType", rt.String(), "boundTo", v.(*typeInfo).name}})
			break
		}
		info.native = rt
		info.class = uref.Classify(rt)
	}
	for _, e := range edges {
		if e.cast == nil || !slices.Contains(info.bases, e.base.info) {
			continue
		}
		if info.casts == nil {
			info.casts = make(map[*typeInfo]CastFunc)
		}
		if _, ok := info.casts[e.base.info]; !ok {
			info.casts[e.base.info] = e.cast
		}
	}
	r.mu.Unlock()

	r.flush(reports)
	return t
}

// BindKey registers an additional native key for t.
func (r *Registry) BindKey(t Type, key any) {
	switch {
	case t.info == nil:
		r.Reporter().CodingError(ErrUnknownType, "cannot bind key")
		return
	case t.info.reg != r:
		r.Reporter().CodingError(ErrForeignType, "cannot bind key", "type", t.info.name)
		return
	case key == nil || !reflect.TypeOf(key).Comparable():
		r.Reporter().CodingError(ErrKeyNotComparable, "cannot bind key", "type", t.info.name)
		return
	}
	if v, loaded := r.byKey.LoadOrStore(key, t.info); loaded {
		if other := v.(*typeInfo); other != t.info {
			r.Reporter().CodingError(ErrKeyInUse, "cannot bind key", "type", t.info.name, "boundTo", other.name)
		}
		return
	}
	r.mu.Lock()
	t.info.keys = append(t.info.keys, key)
	r.mu.Unlock()
}
