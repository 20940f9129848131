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

import "slices"

// AddAlias registers name as an alternate name for t, scoped under base.
// Aliases under the root are also found by Registry.FindByName and may not
// collide with a type name. Re-adding the same alias is a no-op; pointing
// an existing alias at another type is reported and ignored.
func (t Type) AddAlias(base Type, name string) {
	rep := ReporterFor(t)
	switch {
	case t.info == nil || base.info == nil:
		rep.CodingError(ErrInvalidAlias, "cannot add alias", "alias", name, "type", t.TypeName(), "base", base.TypeName())
		return
	case t.info.reg != base.info.reg:
		rep.CodingError(ErrForeignType, "cannot add alias", "alias", name, "type", t.info.name, "base", base.info.name)
		return
	case name == "":
		rep.CodingError(ErrEmptyName, "cannot add alias", "type", t.info.name, "base", base.info.name)
		return
	}

	r := t.info.reg
	r.mu.Lock()
	if base.info == r.root {
		if _, ok := r.byName.Load(name); ok {
			r.mu.Unlock()
			rep.CodingError(ErrAliasShadowsType, "cannot add alias", "alias", name, "type", t.info.name)
			return
		}
	}
	if cur, ok := base.info.aliasToDerived[name]; ok {
		r.mu.Unlock()
		if cur != t.info {
			rep.CodingError(ErrAliasConflict, "cannot add alias", "alias", name, "type", t.info.name, "base", base.info.name, "aliasOf", cur.name)
		}
		return
	}
	if base.info.aliasToDerived == nil {
		base.info.aliasToDerived = make(map[string]*typeInfo)
		base.info.aliasesByDerived = make(map[*typeInfo][]string)
	}
	base.info.aliasToDerived[name] = t.info
	base.info.aliasesByDerived[t.info] = append(base.info.aliasesByDerived[t.info], name)
	r.mu.Unlock()
}

// Aliases returns the aliases derived has under t, in insertion order.
func (t Type) Aliases(derived Type) []string {
	if t.info == nil || derived.info == nil {
		return nil
	}
	t.info.reg.mu.RLock()
	defer t.info.reg.mu.RUnlock()
	return slices.Clone(t.info.aliasesByDerived[derived.info])
}

// FindDerivedByName resolves name as an alias scoped under t, then as the
// canonical name of a type deriving from t. Returns the unknown type on a
// miss.
func (t Type) FindDerivedByName(name string) Type {
	if t.info == nil || name == "" {
		return Type{}
	}
	r := t.info.reg
	r.mu.RLock()
	target := t.info.aliasToDerived[name]
	r.mu.RUnlock()
	if target != nil {
		return Type{target}
	}
	v, ok := r.byName.Load(name)
	if !ok {
		return Type{}
	}
	if d := (Type{v.(*typeInfo)}); d.IsA(t) {
		return d
	}
	return Type{}
}
