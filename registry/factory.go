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

import "dirpx.dev/tfx/apis"

// FactoryFunc adapts a function to apis.Factory.
type FactoryFunc func() any

// New calls f.
func (f FactoryFunc) New() any { return f() }

// SetFactory attaches the single factory for t. A second factory is
// reported and ignored.
func (t Type) SetFactory(f apis.Factory) {
	rep := ReporterFor(t)
	switch {
	case t.info == nil:
		rep.CodingError(ErrUnknownType, "cannot set factory")
		return
	case f == nil:
		rep.CodingError(ErrNilFactory, "cannot set factory", "type", t.info.name)
		return
	}
	r := t.info.reg
	r.mu.Lock()
	if t.info.factory != nil {
		r.mu.Unlock()
		rep.CodingError(ErrFactoryAlreadySet, "cannot set factory", "type", t.info.name)
		return
	}
	t.info.factory = f
	r.mu.Unlock()
}

// Factory returns t's factory after running its definition callback, nil
// when none is set.
func (t Type) Factory() apis.Factory {
	if t.info == nil {
		return nil
	}
	t.info.reg.runDefinitionCallback(t.info)
	t.info.reg.mu.RLock()
	defer t.info.reg.mu.RUnlock()
	return t.info.factory
}

// FactoryAs returns t's factory as F. ok is false when no factory is set or
// it is not an F.
func FactoryAs[F any](t Type) (f F, ok bool) {
	raw := t.Factory()
	if raw == nil {
		return f, false
	}
	f, ok = any(raw).(F)
	return f, ok
}
