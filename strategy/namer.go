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

// NewNamerStrategy creates an apis.Strategy that uses apis.Namer.
func NewNamerStrategy() apis.Strategy {
	return &namerStrategy{}
}

// namerStrategy is the zero-reflection fast path: if a type implements
// apis.Namer, its TypeName() is the canonical name and the chain stops.
type namerStrategy struct{}

// Ensure namerStrategy implements apis.Strategy.
var _ apis.Strategy = (*namerStrategy)(nil)

var namerType = reflect.TypeFor[apis.Namer]()

// TryResolve checks if v implements apis.Namer and returns its TypeName().
func (*namerStrategy) TryResolve(v any, _ apis.Config) (string, bool) {
	if v == nil {
		return "", false
	}
	if n, ok := v.(apis.Namer); ok {
		return n.TypeName(), true
	}
	return "", false
}

// TryResolveType calls TypeName() on a zero value of t (or a fresh *t when
// only the pointer method set implements apis.Namer).
func (*namerStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (string, bool) {
	if t == nil {
		return "", false
	}
	base, err := uref.Normalize(t, cfg)
	if err != nil {
		return "", false
	}
	switch base.Kind() {
	case reflect.Interface, reflect.Pointer:
		// No usable zero value to call through.
		return "", false
	}
	if base.Implements(namerType) {
		return reflect.Zero(base).Interface().(apis.Namer).TypeName(), true
	}
	if reflect.PointerTo(base).Implements(namerType) {
		return reflect.New(base).Interface().(apis.Namer).TypeName(), true
	}
	return "", false
}
