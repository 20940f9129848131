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

// AllAncestorTypes returns t followed by its ancestors in C3 method
// resolution order, root last. When the hierarchy admits no consistent
// linearization the inconsistency is reported and a depth-first order
// without duplicates is returned instead.
func (t Type) AllAncestorTypes() []Type {
	if t.info == nil {
		return nil
	}
	r := t.info.reg
	r.mu.RLock()
	order, ok := linearize(t.info, make(map[*typeInfo][]*typeInfo))
	if !ok {
		order = depthFirst(t.info)
	}
	r.mu.RUnlock()

	if !ok {
		r.Reporter().CodingError(ErrInconsistentHierarchy, "falling back to depth-first ancestor order", "type", t.info.name)
	}
	return wrap(order)
}

// linearize computes the C3 linearization of n. memo caches results for
// shared ancestors. r.mu must be held.
func linearize(n *typeInfo, memo map[*typeInfo][]*typeInfo) ([]*typeInfo, bool) {
	if l, ok := memo[n]; ok {
		return l, true
	}
	seqs := make([][]*typeInfo, 0, len(n.bases)+1)
	for _, b := range n.bases {
		l, ok := linearize(b, memo)
		if !ok {
			return nil, false
		}
		seqs = append(seqs, l)
	}
	seqs = append(seqs, n.bases)

	merged, ok := merge(seqs)
	if !ok {
		return nil, false
	}
	out := append([]*typeInfo{n}, merged...)
	memo[n] = out
	return out, true
}

// merge is the C3 merge. Input slices are resliced, never written.
func merge(seqs [][]*typeInfo) ([]*typeInfo, bool) {
	var out []*typeInfo
	for {
		live := seqs[:0:0]
		for _, s := range seqs {
			if len(s) > 0 {
				live = append(live, s)
			}
		}
		if len(live) == 0 {
			return out, true
		}
		seqs = live

		var head *typeInfo
		for _, s := range seqs {
			if !inTail(s[0], seqs) {
				head = s[0]
				break
			}
		}
		if head == nil {
			return nil, false
		}
		out = append(out, head)
		for i, s := range seqs {
			if s[0] == head {
				seqs[i] = s[1:]
			}
		}
	}
}

func inTail(n *typeInfo, seqs [][]*typeInfo) bool {
	for _, s := range seqs {
		for _, m := range s[1:] {
			if m == n {
				return true
			}
		}
	}
	return false
}

// depthFirst is the pre-order walk used when C3 fails.
func depthFirst(n *typeInfo) []*typeInfo {
	seen := make(map[*typeInfo]bool)
	var out []*typeInfo
	var walk func(*typeInfo)
	walk = func(m *typeInfo) {
		if seen[m] {
			return
		}
		seen[m] = true
		out = append(out, m)
		for _, b := range m.bases {
			walk(b)
		}
	}
	walk(n)
	return out
}
