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
	"path"
	"reflect"
	"strings"
	"sync"

	"dirpx.dev/tfx/apis"
	uref "dirpx.dev/tfx/utils/reflect"
)

// NewReflectStrategy creates an apis.Strategy that derives canonical names via
// reflection using utils/reflect.Normalize and memoization.
func NewReflectStrategy() apis.Strategy {
	return reflectStrategy{}
}

// reflectStrategy is the universal fallback that computes a stable "pkg.Type".
// It strips pointer layers via Normalize, shortens import paths (including
// those inside generic instantiation parameters) and can hide builtin names.
type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// cacheKey ensures memoization respects all config knobs that affect naming.
type cacheKey struct {
	t              reflect.Type
	includeBuiltin bool
	maxUnwrap      int16
	qualify        bool
}

// typeNameCache caches resolved type names by (type, config knobs).
var typeNameCache sync.Map // key: cacheKey, val: string

// TryResolve computes the canonical name for v's dynamic type.
func (reflectStrategy) TryResolve(v any, cfg apis.Config) (string, bool) {
	if v == nil {
		return "", false
	}
	return byType(reflect.TypeOf(v), cfg), true
}

// TryResolveType computes the canonical name for t.
func (reflectStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (string, bool) {
	if t == nil {
		return "", false
	}
	return byType(t, cfg), true
}

// byType resolves the canonical name for t with memoization.
func byType(t reflect.Type, cfg apis.Config) string {
	key := cacheKey{
		t:              t,
		includeBuiltin: cfg.IncludeBuiltins,
		maxUnwrap:      int16(cfg.MaxUnwrap),
		qualify:        cfg.QualifyPackages,
	}
	if v, ok := typeNameCache.Load(key); ok {
		return v.(string)
	}

	base, err := uref.Normalize(t, cfg)
	if err != nil || base == nil {
		typeNameCache.Store(key, "")
		return ""
	}

	name := base.Name()
	if !cfg.QualifyPackages {
		name = shortenTypeParams(name)
	}
	if p := base.PkgPath(); p != "" {
		if !cfg.QualifyPackages {
			p = path.Base(p)
		}
		name = p + "." + name
	} else if !cfg.IncludeBuiltins {
		// Hide builtin/no-package names if requested.
		name = ""
	}

	typeNameCache.Store(key, name)
	return name
}

// shortenTypeParams reduces import paths inside a generic instantiation to
// their last element: "Box[example.com/x/geom.Mesh]" -> "Box[geom.Mesh]".
// Names without type parameters are returned unchanged.
func shortenTypeParams(s string) string {
	i := strings.IndexByte(s, '[')
	if i < 0 || !strings.ContainsRune(s[i:], '/') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:i])
	start := i
	flush := func(end int) {
		tok := s[start:end]
		if j := strings.LastIndexByte(tok, '/'); j >= 0 {
			tok = tok[j+1:]
		}
		b.WriteString(tok)
	}
	for k := i; k < len(s); k++ {
		switch s[k] {
		case '[', ']', ',', '*', ' ', '(', ')', '{', '}', ';':
			flush(k)
			b.WriteByte(s[k])
			start = k + 1
		}
	}
	flush(len(s))
	return b.String()
}
