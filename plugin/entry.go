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

// Package plugin keeps the bookkeeping for instantiable plugin types: one
// Entry per type, holding a lazily created, reference-counted instance.
package plugin

import (
	"cmp"
	"errors"
	"io"

	"dirpx.dev/tfx/registry"
)

var (
	// ErrNoFactory is reported when an entry's type has no plugin factory.
	ErrNoFactory = errors.New("tfx(plugin): type has no plugin factory")
	// ErrNilInstance is reported when a factory returns nil.
	ErrNilInstance = errors.New("tfx(plugin): factory returned nil")
	// ErrRefCountUnderflow is reported when releasing an unreferenced entry.
	ErrRefCountUnderflow = errors.New("tfx(plugin): reference count underflow")
)

// InstantiateFunc builds a new plugin instance.
type InstantiateFunc func() any

// factory wraps InstantiateFunc so only this package can recognize it among
// the factories attached to a type.
type factory struct {
	fn InstantiateFunc
}

func (f *factory) New() any { return f.fn() }

// SetFactory attaches fn as t's plugin factory.
func SetFactory(t registry.Type, fn InstantiateFunc) {
	if fn == nil {
		registry.ReporterFor(t).CodingError(registry.ErrNilFactory, "cannot set plugin factory", "type", t.TypeName())
		return
	}
	t.SetFactory(&factory{fn: fn})
}

// Desc summarizes an entry for listings.
type Desc struct {
	// ID is the canonical type name.
	ID string
	// DisplayName is the human-readable name.
	DisplayName string
	// Priority orders entries; lower values come first.
	Priority int
}

// Entry tracks one plugin type and its shared instance. It is not safe for
// concurrent use; Registry serializes access.
type Entry struct {
	noCopy noCopy

	typ         registry.Type
	displayName string
	priority    int

	instance any
	refCount int
}

// NewEntry returns an entry for t with no instance.
func NewEntry(t registry.Type, displayName string, priority int) *Entry {
	return &Entry{typ: t, displayName: displayName, priority: priority}
}

// Type returns the plugin type the entry stands for.
func (e *Entry) Type() registry.Type { return e.typ }

// ID is the canonical name of the entry's type.
func (e *Entry) ID() string { return e.typ.TypeName() }

// DisplayName returns the human-readable name shown to users.
func (e *Entry) DisplayName() string { return e.displayName }

// Priority returns the sort priority; lower values are preferred.
func (e *Entry) Priority() int { return e.priority }

// Instance returns the live instance, nil while unreferenced.
func (e *Entry) Instance() any { return e.instance }

// RefCount returns the number of live references to the instance.
func (e *Entry) RefCount() int { return e.refCount }

// IncRefCount adds a reference, building the instance on the first one. If
// no instance can be built the count stays at zero.
func (e *Entry) IncRefCount() {
	if e.refCount == 0 {
		f, ok := registry.FactoryAs[*factory](e.typ)
		if !ok {
			registry.ReporterFor(e.typ).CodingError(ErrNoFactory, "cannot instantiate plugin", "type", e.ID())
			return
		}
		inst := f.New()
		if inst == nil {
			registry.ReporterFor(e.typ).CodingError(ErrNilInstance, "cannot instantiate plugin", "type", e.ID())
			return
		}
		e.instance = inst
	}
	e.refCount++
}

// DecRefCount drops a reference. The last one releases the instance,
// closing it when it implements io.Closer.
func (e *Entry) DecRefCount() {
	if e.refCount == 0 {
		registry.ReporterFor(e.typ).CodingError(ErrRefCountUnderflow, "cannot release plugin", "type", e.ID())
		return
	}
	e.refCount--
	if e.refCount > 0 {
		return
	}
	inst := e.instance
	e.instance = nil
	if c, ok := inst.(io.Closer); ok {
		if err := c.Close(); err != nil {
			registry.ReporterFor(e.typ).Warning("plugin close failed", "type", e.ID(), "error", err)
		}
	}
}

// Less orders entries by ascending priority, then type name.
func (e *Entry) Less(o *Entry) bool { return e.Compare(o) < 0 }

// Compare is the three-way form of Less.
func (e *Entry) Compare(o *Entry) int {
	if c := cmp.Compare(e.priority, o.priority); c != 0 {
		return c
	}
	return cmp.Compare(e.ID(), o.ID())
}

// Desc returns the listing summary of e.
func (e *Entry) Desc() Desc {
	return Desc{ID: e.ID(), DisplayName: e.displayName, Priority: e.priority}
}

// noCopy may be embedded into structs which must not be copied after first
// use. See go vet's copylocks check.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
