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
	"runtime"
	"sync"
	"unsafe"
	"weak"
)

// CastFunc converts a reference between a derived type and one of its direct
// bases. up selects derived-to-base. It returns nil when obj is not of the
// expected type.
type CastFunc func(obj any, up bool) any

// Base names a direct base of a Go type being defined, optionally with the
// cast between them.
type Base struct {
	Type reflect.Type
	Cast CastFunc
}

// BaseOf names B as a base without a cast.
func BaseOf[B any]() Base {
	return Base{Type: reflect.TypeFor[B]()}
}

// BaseWith names rt as a base with an explicit cast.
func BaseWith(rt reflect.Type, cast CastFunc) Base {
	return Base{Type: rt, Cast: cast}
}

// EmbeddedBase names B, embedded by value in struct D, as a base of D. The
// upcast maps *D to the address of its embedded B. The downcast only
// accepts a *B handed out by an upcast from a D that is still alive; any
// other *B is rejected, since nothing else proves it lives inside a D.
func EmbeddedBase[D, B any]() Base {
	dt, bt := reflect.TypeFor[D](), reflect.TypeFor[B]()
	base := Base{Type: bt}
	if dt.Kind() != reflect.Struct {
		return base
	}
	for i := 0; i < dt.NumField(); i++ {
		f := dt.Field(i)
		if !f.Anonymous || f.Type != bt {
			continue
		}
		c := &containers[D, B]{off: f.Offset, byBase: make(map[weak.Pointer[B]]weak.Pointer[D])}
		base.Cast = func(obj any, up bool) any {
			if up {
				d, ok := obj.(*D)
				if !ok || d == nil {
					return nil
				}
				return c.embedded(d)
			}
			b, ok := obj.(*B)
			if !ok || b == nil {
				return nil
			}
			if d := c.container(b); d != nil {
				return d
			}
			return nil
		}
		break
	}
	return base
}

// containers remembers which D each upcast *B came from. Entries hold weak
// pointers only and are dropped when the D is collected.
type containers[D, B any] struct {
	off uintptr

	mu     sync.Mutex
	byBase map[weak.Pointer[B]]weak.Pointer[D]
}

func (c *containers[D, B]) embedded(d *D) *B {
	b := (*B)(unsafe.Add(unsafe.Pointer(d), c.off))
	key := weak.Make(b)

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.byBase[key]; ok && prev.Value() == d {
		return b
	}
	c.byBase[key] = weak.Make(d)
	runtime.AddCleanup(d, c.forget, key)
	return b
}

// container returns the D b was handed out from, nil if b never came from
// an upcast.
func (c *containers[D, B]) container(b *B) *D {
	key := weak.Make(b)
	c.mu.Lock()
	wd, ok := c.byBase[key]
	c.mu.Unlock()
	if !ok {
		return nil
	}
	d := wd.Value()
	if d == nil || unsafe.Add(unsafe.Pointer(d), c.off) != unsafe.Pointer(b) {
		return nil
	}
	return d
}

func (c *containers[D, B]) forget(key weak.Pointer[B]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if wd, ok := c.byBase[key]; ok && wd.Value() == nil {
		delete(c.byBase, key)
	}
}

// InterfaceBase names interface I as a base of D, where D is the reference
// type implementing it, typically a pointer. Both directions are type
// assertions.
func InterfaceBase[D, I any]() Base {
	return Base{
		Type: reflect.TypeFor[I](),
		Cast: func(obj any, up bool) any {
			if up {
				d, ok := obj.(D)
				if !ok {
					return nil
				}
				i, ok := any(d).(I)
				if !ok {
					return nil
				}
				return i
			}
			if _, ok := obj.(I); !ok {
				return nil
			}
			d, ok := obj.(D)
			if !ok {
				return nil
			}
			return d
		},
	}
}

// CastToAncestor converts obj, a reference to a value of type t, to a
// reference to ancestor by applying the casts along the first inheritance
// path found. Casting to t itself or to the root is the identity. Returns
// nil and reports when no path or cast exists.
func (t Type) CastToAncestor(ancestor Type, obj any) any {
	casts, ok := t.castPath(ancestor, "CastToAncestor")
	if !ok {
		return nil
	}
	for i, c := range casts {
		if obj = c(obj, true); obj == nil {
			ReporterFor(t).CodingError(ErrCastFailed, "upcast rejected input", "type", t.info.name, "ancestor", ancestor.info.name, "step", i)
			return nil
		}
	}
	return obj
}

// CastFromAncestor converts obj, a reference to ancestor, back to a reference
// to t. The result must be registered as t or a descendant of t, or, when
// its Go type is unregistered, match t's bound Go type.
func (t Type) CastFromAncestor(ancestor Type, obj any) any {
	casts, ok := t.castPath(ancestor, "CastFromAncestor")
	if !ok {
		return nil
	}
	for i := len(casts) - 1; i >= 0; i-- {
		if obj = casts[i](obj, false); obj == nil {
			ReporterFor(t).CodingError(ErrCastFailed, "downcast rejected input", "type", t.info.name, "ancestor", ancestor.info.name, "step", i)
			return nil
		}
	}
	if !t.holds(obj) {
		ReporterFor(t).CodingError(ErrCastFailed, "downcast produced unrelated type", "type", t.info.name, "got", reflect.TypeOf(obj).String())
		return nil
	}
	return obj
}

// holds reports whether obj may stand for a value of t: its dynamic type is
// registered as t or a descendant, or, when unregistered, it is t's bound
// Go type, a pointer to it, or implements it.
func (t Type) holds(obj any) bool {
	if dyn := t.info.reg.FindValue(obj); dyn.Valid() {
		return dyn.IsA(t)
	}
	want := t.NativeType()
	if want == nil {
		return true
	}
	got := reflect.TypeOf(obj)
	switch {
	case got == want, got.Kind() == reflect.Pointer && got.Elem() == want:
		return true
	case want.Kind() == reflect.Interface:
		return got.Implements(want)
	}
	return false
}

// castPath returns the casts from t up to ancestor, nearest first.
func (t Type) castPath(ancestor Type, op string) ([]CastFunc, bool) {
	rep := ReporterFor(t)
	switch {
	case t.info == nil || ancestor.info == nil:
		rep.CodingError(ErrUnknownType, "cannot cast", "op", op)
		return nil, false
	case t.info.reg != ancestor.info.reg:
		rep.CodingError(ErrForeignType, "cannot cast", "op", op, "type", t.info.name, "ancestor", ancestor.info.name)
		return nil, false
	case t.info == ancestor.info || ancestor.IsRoot():
		return nil, true
	}

	r := t.info.reg
	r.mu.RLock()
	path := findPath(t.info, ancestor.info, true)
	if path == nil {
		path = findPath(t.info, ancestor.info, false)
	}
	var casts []CastFunc
	var missing *typeInfo
	for i := 0; i+1 < len(path); i++ {
		c := path[i].casts[path[i+1]]
		if c == nil {
			missing = path[i]
			break
		}
		casts = append(casts, c)
	}
	r.mu.RUnlock()

	switch {
	case path == nil:
		rep.CodingError(ErrNotAncestor, "cannot cast", "op", op, "type", t.info.name, "ancestor", ancestor.info.name)
		return nil, false
	case missing != nil:
		rep.CodingError(ErrMissingCast, "cannot cast", "op", op, "type", missing.name, "ancestor", ancestor.info.name)
		return nil, false
	}
	return casts, true
}

// findPath returns the first path from n up to target in base order. With
// castable set only edges carrying a cast are followed. r.mu must be held.
func findPath(n, target *typeInfo, castable bool) []*typeInfo {
	if n == target {
		return []*typeInfo{n}
	}
	for _, b := range n.bases {
		if castable && n.casts[b] == nil {
			continue
		}
		if p := findPath(b, target, castable); p != nil {
			return append([]*typeInfo{n}, p...)
		}
	}
	return nil
}
