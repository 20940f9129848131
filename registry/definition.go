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
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// runDefinitionCallback runs info's callback unless it already succeeded.
// Reports whether a callback exists. Callbacks run one at a time under r.def;
// a concurrent caller waits for the running one, while a call made from
// inside the callback for the same type returns at once. Must be called
// without r.mu held.
func (r *Registry) runDefinitionCallback(info *typeInfo) bool {
	r.mu.RLock()
	cb := info.callback
	r.mu.RUnlock()
	if cb == nil {
		return false
	}
	if info.defined.Load() {
		return true
	}

	r.def.lock()
	defer r.def.unlock()
	if info.defined.Load() || info.defining {
		return true
	}
	info.defining = true
	defer func() { info.defining = false }()

	if err := cb(Type{info}); err != nil {
		r.Reporter().Warning("type definition pending", "type", info.name, "error", err)
		return true
	}
	info.defined.Store(true)
	return true
}

// EnsureDefined runs t's definition callback if it has not succeeded yet.
func (t Type) EnsureDefined() {
	if t.info != nil {
		t.info.reg.runDefinitionCallback(t.info)
	}
}

// WithDefinitionLock runs fn holding the lock definition callbacks run
// under, so fn never interleaves with a callback on another goroutine.
// Calls nest on the same goroutine.
func (r *Registry) WithDefinitionLock(fn func() error) error {
	r.def.lock()
	defer r.def.unlock()
	return fn()
}

// defLock is a mutex the holding goroutine may acquire again.
type defLock struct {
	mu    sync.Mutex
	owner atomic.Uint64
	depth int
}

func (l *defLock) lock() {
	id := goid()
	if l.owner.Load() == id {
		l.depth++
		return
	}
	l.mu.Lock()
	l.owner.Store(id)
	l.depth = 1
}

func (l *defLock) unlock() {
	l.depth--
	if l.depth == 0 {
		l.owner.Store(0)
		l.mu.Unlock()
	}
}

var goroutinePrefix = []byte("goroutine ")

// goid returns the id of the calling goroutine, read from its stack header.
func goid() uint64 {
	var buf [64]byte
	b := bytes.TrimPrefix(buf[:runtime.Stack(buf[:], false)], goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}
