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

package registry_test

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"dirpx.dev/tfx/registry"
)

// A few named types to avoid anonymous/unnamed pitfalls.
type T0 struct{}
type T1 struct{}
type T2 struct{}
type T3 struct{}

// TestConcurrentDeclareAndFind verifies that concurrent declaration of the
// same names yields a single entry per name and a consistent graph.
func TestConcurrentDeclareAndFind(t *testing.T) {
	reg, logs := newRegistry(t)
	base := reg.Declare("Base")

	workers := runtime.GOMAXPROCS(0) * 4
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < 50; i++ {
				name := fmt.Sprintf("T%d", i%10)
				got := reg.DeclareWithBases(name, []registry.Type{base}, nil)
				if !got.IsA(base) {
					return fmt.Errorf("%s does not derive from Base", name)
				}
				if reg.FindByName(name) != got {
					return fmt.Errorf("FindByName(%s) mismatch", name)
				}
				_ = got.AllAncestorTypes()
				_ = base.AllDerivedTypes()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 12, reg.Count())
	assert.Len(t, base.DirectlyDerivedTypes(), 10)
	assert.Empty(t, codingErrors(logs))
}

// TestConcurrentDefinitionCallback verifies a callback runs exactly once
// under concurrent demand.
func TestConcurrentDefinitionCallback(t *testing.T) {
	reg, _ := newRegistry(t)

	var calls atomic.Int32
	types := map[string]func(){
		"registry_test.T0": func() { registry.DefineType[T0](reg) },
		"registry_test.T1": func() { registry.DefineType[T1](reg) },
		"registry_test.T2": func() { registry.DefineType[T2](reg) },
		"registry_test.T3": func() { registry.DefineType[T3](reg) },
	}
	for name, define := range types {
		reg.DeclareWithBases(name, nil, func(registry.Type) error {
			calls.Add(1)
			define()
			return nil
		})
	}

	var g errgroup.Group
	for w := 0; w < 16; w++ {
		g.Go(func() error {
			for _, name := range []string{"registry_test.T0", "registry_test.T1", "registry_test.T2", "registry_test.T3"} {
				reg.FindByName(name).EnsureDefined()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 4, calls.Load())
	assert.True(t, registry.FindType[T0](reg).IsDefined())
	assert.True(t, registry.FindType[T3](reg).IsDefined())
}

// TestDefinitionCallback_ConcurrentFindWaits verifies a lookup made while the
// callback runs on another goroutine returns the defined type, and that the
// callback looking itself up does not block.
func TestDefinitionCallback_ConcurrentFindWaits(t *testing.T) {
	reg, _ := newRegistry(t)

	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	var inside registry.Type
	reg.DeclareWithBases("registry_test.T0", nil, func(registry.Type) error {
		calls.Add(1)
		close(started)
		<-release
		inside = registry.FindType[T0](reg)
		registry.DefineType[T0](reg)
		return nil
	})

	var first, second registry.Type
	var g errgroup.Group
	g.Go(func() error {
		first = registry.FindType[T0](reg)
		return nil
	})
	<-started
	g.Go(func() error {
		second = registry.FindType[T0](reg)
		return nil
	})
	close(release)
	require.NoError(t, g.Wait())

	assert.True(t, inside.IsUnknown(), "self lookup inside the callback returns early")
	require.True(t, first.IsDefined())
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, calls.Load())
}
