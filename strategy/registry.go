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

	"dirpx.dev/tfx/apis"
	uref "dirpx.dev/tfx/utils/reflect"
)

// NewRegistryStrategy creates an apis.Strategy that answers with names
// already bound in l. A type registered under an explicit name keeps that
// name for every later lookup, including through pointer layers.
func NewRegistryStrategy(l apis.Lookup) apis.Strategy {
	return &registryStrategy{l: l}
}

type registryStrategy struct {
	l apis.Lookup
}

// Ensure registryStrategy implements apis.Strategy.
var _ apis.Strategy = (*registryStrategy)(nil)

// TryResolve looks up the dynamic type of v.
func (s *registryStrategy) TryResolve(v any, cfg apis.Config) (string, bool) {
	if v == nil {
		return "", false
	}
	return s.TryResolveType(reflect.TypeOf(v), cfg)
}

// TryResolveType looks up t as given, then the named type under its
// pointer layers.
func (s *registryStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (string, bool) {
	if t == nil || s.l == nil {
		return "", false
	}
	if name, ok := s.l.Lookup(t); ok {
		return name, true
	}
	base, err := uref.Normalize(t, cfg)
	if err != nil || base == t {
		return "", false
	}
	return s.l.Lookup(base)
}
