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
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Notice announces a newly created type. It is delivered after the
// registry lock is released, so handlers may call back into the registry.
type Notice struct {
	Type Type
}

// Subscription is a handle to a registered notice handler.
type Subscription struct {
	id     string
	fn     func(Notice)
	hub    *noticeHub
	active atomic.Bool
}

// ID returns the subscription's unique identifier.
func (s *Subscription) ID() string { return s.id }

// Cancel stops delivery. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s.active.CompareAndSwap(true, false) {
		s.hub.remove(s)
	}
}

type noticeHub struct {
	mu   sync.Mutex
	subs []*Subscription
}

// Subscribe registers fn for type-declared notices, delivered synchronously
// in subscription order.
func (r *Registry) Subscribe(fn func(Notice)) *Subscription {
	s := &Subscription{id: uuid.NewString(), fn: fn, hub: &r.notices}
	s.active.Store(true)
	r.notices.mu.Lock()
	r.notices.subs = append(r.notices.subs, s)
	r.notices.mu.Unlock()
	return s
}

func (h *noticeHub) remove(s *Subscription) {
	h.mu.Lock()
	h.subs = slices.DeleteFunc(h.subs, func(x *Subscription) bool { return x == s })
	h.mu.Unlock()
}

func (h *noticeHub) publish(n Notice) {
	h.mu.Lock()
	subs := slices.Clone(h.subs)
	h.mu.Unlock()
	for _, s := range subs {
		if s.active.Load() && s.fn != nil {
			s.fn(n)
		}
	}
}
