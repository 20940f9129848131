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

// Package plug describes plugins and the types they provide, and loads
// plugins on first demand for one of their types.
//
// A plugin is described by a manifest (YAML, TOML or JSON) listing its types,
// their bases, aliases and free-form metadata. Registering a manifest
// declares every listed type in a registry.Registry with a definition
// callback; the first lookup that needs the Go definition of a type runs the
// plugin's loader.
package plug

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Well-known metadata keys.
const (
	KeyBases       = "bases"
	KeyAliases     = "aliases"
	KeyDisplayName = "displayName"
	KeyPriority    = "priority"
)

var (
	// ErrInvalidManifest is returned when a manifest is malformed.
	ErrInvalidManifest = errors.New("tfx(plug): invalid manifest")
	// ErrUnsupportedFormat is returned for manifest files of unknown type.
	ErrUnsupportedFormat = errors.New("tfx(plug): unsupported manifest format")
)

// Manifest lists plugins and the types they provide.
type Manifest struct {
	Plugins []PluginInfo `json:"plugins" yaml:"plugins" toml:"plugins"`
}

// PluginInfo describes one plugin. Types maps a canonical type name to its
// metadata.
type PluginInfo struct {
	Name  string                    `json:"name" yaml:"name" toml:"name"`
	Types map[string]map[string]any `json:"types" yaml:"types" toml:"types"`
}

// Validate checks plugin names and the shape of well-known metadata keys.
func (m *Manifest) Validate() error {
	for i, p := range m.Plugins {
		if p.Name == "" {
			return fmt.Errorf("%w: plugin #%d has no name", ErrInvalidManifest, i)
		}
		for _, name := range sortedKeys(p.Types) {
			if name == "" {
				return fmt.Errorf("%w: plugin %q lists a type without a name", ErrInvalidManifest, p.Name)
			}
			meta := p.Types[name]
			if _, err := stringList(meta[KeyBases]); err != nil {
				return fmt.Errorf("%w: %s.%s: %w", ErrInvalidManifest, name, KeyBases, err)
			}
			if _, err := stringMap(meta[KeyAliases]); err != nil {
				return fmt.Errorf("%w: %s.%s: %w", ErrInvalidManifest, name, KeyAliases, err)
			}
			if v, ok := meta[KeyDisplayName]; ok {
				if _, ok := v.(string); !ok {
					return fmt.Errorf("%w: %s.%s: want string, got %T", ErrInvalidManifest, name, KeyDisplayName, v)
				}
			}
			if v, ok := meta[KeyPriority]; ok {
				if _, ok := toInt(v); !ok {
					return fmt.Errorf("%w: %s.%s: want integer, got %v", ErrInvalidManifest, name, KeyPriority, v)
				}
			}
		}
	}
	return nil
}

func stringList(v any) ([]string, error) {
	switch vv := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return vv, nil
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("want string, got %T", e)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("want list of strings, got %T", v)
}

func stringMap(v any) (map[string]string, error) {
	switch vv := v.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return vv, nil
	case map[string]any:
		out := make(map[string]string, len(vv))
		for k, e := range vv {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("want string for %q, got %T", k, e)
			}
			out[k] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("want map of strings, got %T", v)
}

// toInt accepts the integer shapes produced by the YAML, TOML and JSON
// decoders.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
