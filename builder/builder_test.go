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

package builder_test

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/tfx/apis"
	"dirpx.dev/tfx/builder"
	"dirpx.dev/tfx/config"
	"dirpx.dev/tfx/diag"
	"dirpx.dev/tfx/registry"
)

// userType is a plain named type with no special behavior.
// It is used to test fallback via reflection.
type userType struct{}

// hotType implements apis.Namer and is used to verify that the
// Namer-based strategy takes priority over other strategies.
type hotType struct{}

func (hotType) TypeName() string { return "hot-name" }

// TestBuildRegistry_Basic asserts that BuildRegistry returns a working
// registry wired with the builder's collaborators.
func TestBuildRegistry_Basic(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()

	reg := builder.BuildRegistry(b, cfg)
	if reg == nil {
		t.Fatal("BuildRegistry returned nil")
	}
	if got := reg.Config(); got != cfg {
		t.Fatalf("Config() = %+v, want %+v", got, cfg)
	}
	res, rep := reg.Collaborators()
	if res == nil || rep == nil {
		t.Fatalf("Collaborators() = (%v, %v), want non-nil", res, rep)
	}
	if _, ok := rep.(*diag.Reporter); !ok {
		t.Fatalf("reporter is %T, want *diag.Reporter", rep)
	}

	ut := registry.DefineType[userType](reg)
	if got := ut.TypeName(); got != "builder_test.userType" {
		t.Fatalf("TypeName() = %q, want %q", got, "builder_test.userType")
	}
	if reg.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", reg.Count())
	}
}

// TestBuildResolver_Order_NamerThenReflect checks the strategy order.
func TestBuildResolver_Order_NamerThenReflect(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()
	res := b.BuildResolver(cfg, nil)

	if got := res.ResolveType(reflect.TypeOf(hotType{}), cfg); got != "hot-name" {
		t.Fatalf("namer not preferred: got %q want %q", got, "hot-name")
	}
	if got := res.ResolveType(reflect.TypeOf(&hotType{}), cfg); got != "hot-name" {
		t.Fatalf("namer through pointer: got %q want %q", got, "hot-name")
	}
	if got := res.ResolveType(reflect.TypeOf(userType{}), cfg); got != "builder_test.userType" {
		t.Fatalf("reflect fallback: got %q want %q", got, "builder_test.userType")
	}
	if got := res.ResolveType(reflect.TypeOf([]userType{}), cfg); got != "" {
		t.Fatalf("unnamed type resolved to %q, want empty", got)
	}
}

// TestReconfigure_SwapsCollaboratorsKeepsTypes verifies the registry keeps
// its entries while resolver, reporter and config are replaced.
func TestReconfigure_SwapsCollaboratorsKeepsTypes(t *testing.T) {
	b := builder.New()
	reg := builder.BuildRegistry(b, config.DefaultConfig())
	ut := registry.DefineType[userType](reg)
	_, oldRep := reg.Collaborators()

	cfg := config.NewConfig(config.WithQualifyPackages(true), config.WithLogLevel("debug"))
	builder.Reconfigure(b, reg, cfg)

	if got := reg.Config(); got != cfg {
		t.Fatalf("Config() = %+v, want %+v", got, cfg)
	}
	if _, rep := reg.Collaborators(); rep == oldRep {
		t.Fatal("reporter was not rebuilt")
	}
	if got := registry.FindType[userType](reg); got != ut {
		t.Fatalf("FindType after Reconfigure = %v, want %v", got, ut)
	}
	if got := reg.CanonicalTypeName(reflect.TypeOf(hotType{})); got != "hot-name" {
		t.Fatalf("CanonicalTypeName = %q, want %q", got, "hot-name")
	}
	if got := reg.CanonicalTypeName(reflect.TypeOf(struct{ userType }{})); got != "" {
		t.Fatalf("anonymous struct named %q", got)
	}
}

// TestBuildResolver_Concurrency_Smoke hammers the resolver in parallel to ensure
// it is safe to call Resolve/ResolveType concurrently after being built.
func TestBuildResolver_Concurrency_Smoke(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()
	res := b.BuildResolver(cfg, nil)

	types := []reflect.Type{
		reflect.TypeOf(userType{}),
		reflect.TypeOf(hotType{}),
		reflect.TypeOf(&userType{}),
		reflect.TypeOf([]userType{}),
	}

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				tt := types[(i+id)%len(types)]
				_ = res.ResolveType(tt, cfg)
				_ = res.Resolve(hotType{}, cfg)
			}
		}(w)
	}

	wg.Wait()
}

// Compile-time check: builder.New() must satisfy apis.Builder.
var _ apis.Builder = builder.New()
