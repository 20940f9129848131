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
	"reflect"
	"sync"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/registry"
)

var (
	// ErrNotInterface is returned when a singleton factory is keyed by a
	// non-interface type.
	ErrNotInterface = errors.New("tfx(plug): not an interface type")
	// ErrNotImplemented is returned when the implementation does not satisfy
	// the interface.
	ErrNotImplemented = errors.New("tfx(plug): implementation does not satisfy interface")
)

// Base is implemented by the factories of interface types. It tells them
// apart from other factories attached to the same registry.
type Base interface {
	apis.Factory
	interfaceFactory()
}

var _ Base = (*SingletonFactory[apis.Factory, registry.FactoryFunc])(nil)

// SingletonFactory serves the single shared *Impl behind interface I.
type SingletonFactory[I, Impl any] struct {
	once sync.Once
	inst I
}

// NewSingletonFactory checks that I is an interface satisfied by *Impl.
func NewSingletonFactory[I, Impl any]() (*SingletonFactory[I, Impl], error) {
	it := reflect.TypeFor[I]()
	if it.Kind() != reflect.Interface {
		return nil, fmt.Errorf("%w: %s", ErrNotInterface, it)
	}
	if pt := reflect.PointerTo(reflect.TypeFor[Impl]()); !pt.Implements(it) {
		return nil, fmt.Errorf("%w: %s does not implement %s", ErrNotImplemented, pt, it)
	}
	return &SingletonFactory[I, Impl]{}, nil
}

// New returns the shared instance as I, building it on first use.
func (f *SingletonFactory[I, Impl]) New() any {
	f.once.Do(func() {
		f.inst = any(new(Impl)).(I)
	})
	return f.inst
}

func (*SingletonFactory[I, Impl]) interfaceFactory() {}

// SetInterfaceFactory attaches a SingletonFactory[I, Impl] to t, usually the
// declared type of I. Misuse is reported to t's registry.
func SetInterfaceFactory[I, Impl any](t registry.Type) {
	f, err := NewSingletonFactory[I, Impl]()
	if err != nil {
		registry.ReporterFor(t).CodingError(err, "cannot attach interface factory", "type", t.TypeName())
		return
	}
	t.SetFactory(f)
}

// DefineInterface defines I in r and attaches its singleton factory.
func DefineInterface[I, Impl any](r *registry.Registry) registry.Type {
	t := registry.DefineType[I](r)
	SetInterfaceFactory[I, Impl](t)
	return t
}

// Interface returns the singleton behind t as I.
func Interface[I any](t registry.Type) (I, bool) {
	var zero I
	f, ok := registry.FactoryAs[Base](t)
	if !ok {
		return zero, false
	}
	v, ok := f.New().(I)
	if !ok {
		return zero, false
	}
	return v, true
}
