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

package apis

// Describer augments Namer with a human-oriented display name.
//
// Display names are type-level: implementations should return a constant
// and must be callable on the zero value (or a new pointer when only the
// pointer method set implements Describer). They are used when plugin
// metadata provides no display name of its own.
//
//	type FastRenderer struct{}
//
//	func (FastRenderer) TypeName() string    { return "FastRenderer" }
//	func (FastRenderer) DisplayName() string { return "Fast Renderer" }
type Describer interface {
	Namer
	DisplayName() string
}
