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
	"testing"

	"dirpx.dev/tfx/apis"
)

// Local test types.
type A struct{}
type G[T any] struct{}
type W[T any] struct{ V T }

// cfg returns a convenient baseline Config for tests.
func cfg(opts ...func(*apis.Config)) apis.Config {
	c := apis.Config{
		IncludeBuiltins: true,
		MaxUnwrap:       8,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func TestReflectStrategy_ByValue(t *testing.T) {
	s := NewReflectStrategy()

	cases := []struct {
		name     string
		val      any
		cfg      apis.Config
		expected string
	}{
		{"plain struct", A{}, cfg(), "strategy.A"},
		{"ptr", &A{}, cfg(), "strategy.A"},
		{"slice is anonymous", []A{}, cfg(), ""},
		{"map is anonymous", map[string]A{}, cfg(), ""},
		{"builtin visible", 42, cfg(func(c *apis.Config) { c.IncludeBuiltins = true }), "int"},
		{"builtin hidden", 42, cfg(func(c *apis.Config) { c.IncludeBuiltins = false }), ""},
		{"generic keeps params", G[int]{}, cfg(), "strategy.G[int]"},
		{"nested generic shortens paths", W[G[A]]{}, cfg(), "strategy.W[strategy.G[strategy.A]]"},
		{"qualified", A{}, cfg(func(c *apis.Config) { c.QualifyPackages = true }), "dirpx.dev/tfx/strategy.A"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryResolve(tc.val, tc.cfg)
			if !ok {
				t.Fatalf("expected ok=true for %T", tc.val)
			}
			if got != tc.expected {
				t.Fatalf("got %q, want %q", got, tc.expected)
			}
		})
	}

	if _, ok := s.TryResolve(nil, cfg()); ok {
		t.Fatalf("nil value: expected ok=false, got true")
	}
}

func TestReflectStrategy_ByType(t *testing.T) {
	s := NewReflectStrategy()

	cases := []struct {
		name     string
		typ      reflect.Type
		expected string
	}{
		{"type plain", reflect.TypeOf(A{}), "strategy.A"},
		{"type ptr", reflect.TypeOf(&A{}), "strategy.A"},
		{"type generic instantiation", reflect.TypeOf(G[string]{}), "strategy.G[string]"},
		{"interface", reflect.TypeFor[apis.Namer](), "apis.Namer"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryResolveType(tc.typ, cfg())
			if !ok {
				t.Fatalf("expected ok=true for %v", tc.typ)
			}
			if got != tc.expected {
				t.Fatalf("got %q, want %q", got, tc.expected)
			}
		})
	}

	if _, ok := s.TryResolveType(nil, cfg()); ok {
		t.Fatalf("nil type: expected ok=false, got true")
	}
}

func TestReflectStrategy_MaxUnwrap(t *testing.T) {
	s := NewReflectStrategy()

	type PP = **A
	tt := reflect.TypeOf((*PP)(nil)).Elem() // **A type (not a value)

	t.Run("tight limit", func(t *testing.T) {
		cfgTight := cfg(func(c *apis.Config) { c.MaxUnwrap = 1 })
		got, ok := s.TryResolveType(tt, cfgTight)
		if ok && got != "" {
			t.Fatalf("MaxUnwrap=1: expected empty resolution, got %q", got)
		}
	})

	t.Run("wide limit", func(t *testing.T) {
		cfgWide := cfg(func(c *apis.Config) { c.MaxUnwrap = 8 })
		got, ok := s.TryResolveType(tt, cfgWide)
		if !ok || got != "strategy.A" {
			t.Fatalf("MaxUnwrap=8: got (%q,%v), want (strategy.A,true)", got, ok)
		}
	})
}

func TestShortenTypeParams(t *testing.T) {
	cases := map[string]string{
		"Mesh":                                  "Mesh",
		"Box[int]":                              "Box[int]",
		"Box[example.com/x/geom.Mesh]":          "Box[geom.Mesh]",
		"Pair[a/b.K,map[string]*c/d.V]":         "Pair[b.K,map[string]*d.V]",
		"Fn[func(example.com/p.In) example.com/q.Out]": "Fn[func(p.In) q.Out]",
	}
	for in, want := range cases {
		if got := shortenTypeParams(in); got != want {
			t.Errorf("shortenTypeParams(%q) = %q, want %q", in, got, want)
		}
	}
}

// ---- Benchmarks ----

func BenchmarkReflectStrategy_ByType(b *testing.B) {
	s := NewReflectStrategy()

	types := []reflect.Type{
		reflect.TypeOf(A{}),
		reflect.TypeOf(&A{}),
		reflect.TypeOf(G[int]{}),
	}
	conf := cfg()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.TryResolveType(types[i%len(types)], conf)
	}
}
