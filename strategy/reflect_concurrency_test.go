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

package strategy_test

import (
	"reflect"
	"runtime"
	"testing"

	"golang.org/x/sync/errgroup"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/strategy"
)

// Named types for stable names.
type Foo struct{}
type Bar[T any] struct{ X T }

// TestReflectStrategy_ConcurrentResolve_Stable verifies that TryResolveType
// is race-free and returns the same names under heavy concurrency.
func TestReflectStrategy_ConcurrentResolve_Stable(t *testing.T) {
	s := strategy.NewReflectStrategy()
	cfg := apis.Config{IncludeBuiltins: true, MaxUnwrap: 8}

	tys := []reflect.Type{
		reflect.TypeOf(Foo{}),
		reflect.TypeOf(&Foo{}),
		reflect.TypeOf(Bar[int]{}),
		reflect.TypeOf(&Bar[Foo]{}),
		reflect.TypeOf(0),
	}
	want := []string{"strategy_test.Foo", "strategy_test.Foo", "strategy_test.Bar[int]", "strategy_test.Bar[strategy_test.Foo]", "int"}

	var g errgroup.Group
	workers := runtime.GOMAXPROCS(0) * 4
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < 2000; i++ {
				idx := (i + w) % len(tys)
				if got, ok := s.TryResolveType(tys[idx], cfg); !ok || got != want[idx] {
					t.Errorf("TryResolveType(%v) = (%q,%v), want %q", tys[idx], got, ok, want[idx])
					return nil
				}
			}
			return nil
		})
	}
	_ = g.Wait()
}
