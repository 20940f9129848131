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

package strategy

import (
	"reflect"
	"runtime"
	"sync"
	"testing"
)

// bound is a map-backed apis.Lookup.
type bound map[reflect.Type]string

func (b bound) Lookup(t reflect.Type) (string, bool) {
	name, ok := b[t]
	return name, ok
}

func TestRegistryStrategy_ByValue(t *testing.T) {
	s := NewRegistryStrategy(bound{reflect.TypeFor[A](): "domain.A"})

	cases := []struct {
		name string
		val  any
		want string
		ok   bool
	}{
		{"plain", A{}, "domain.A", true},
		{"ptr", &A{}, "domain.A", true},
		{"slice is not A", []A{}, "", false},
		{"unbound", G[int]{}, "", false},
		{"nil", nil, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryResolve(tc.val, cfg())
			if ok != tc.ok || got != tc.want {
				t.Fatalf("TryResolve(%T) = (%q,%v), want (%q,%v)", tc.val, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestRegistryStrategy_ExactBindingWins(t *testing.T) {
	s := NewRegistryStrategy(bound{
		reflect.TypeFor[A]():  "domain.A",
		reflect.TypeFor[*A](): "domain.APtr",
	})
	if got, _ := s.TryResolveType(reflect.TypeFor[*A](), cfg()); got != "domain.APtr" {
		t.Fatalf("TryResolveType(*A) = %q, want domain.APtr", got)
	}
	if got, _ := s.TryResolveType(reflect.TypeFor[**A](), cfg()); got != "domain.A" {
		t.Fatalf("TryResolveType(**A) = %q, want domain.A", got)
	}
}

func TestRegistryStrategy_NoUnwrapWhenDisabled(t *testing.T) {
	s := NewRegistryStrategy(bound{reflect.TypeFor[A](): "domain.A"})
	c := cfg()
	c.MaxUnwrap = 0
	if got, ok := s.TryResolveType(reflect.TypeFor[*A](), c); ok || got != "" {
		t.Fatalf("TryResolveType(*A) = (%q,%v), want ('',false)", got, ok)
	}
}

func TestRegistryStrategy_NilLookup(t *testing.T) {
	s := NewRegistryStrategy(nil)
	if got, ok := s.TryResolveType(reflect.TypeFor[A](), cfg()); ok || got != "" {
		t.Fatalf("TryResolveType with nil lookup = (%q,%v)", got, ok)
	}
}

func TestRegistryStrategy_Concurrent(t *testing.T) {
	s := NewRegistryStrategy(bound{reflect.TypeFor[A](): "domain.A"})
	types := []reflect.Type{reflect.TypeFor[A](), reflect.TypeFor[*A]()}

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan string, workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if got, ok := s.TryResolveType(types[i%len(types)], cfg()); !ok || got != "domain.A" {
					errCh <- got
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for got := range errCh {
		t.Fatalf("concurrent TryResolveType = %q, want domain.A", got)
	}
}
