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

// Factory is the base capability attached to a registered type. It builds
// instances without the caller knowing the concrete Go type.
//
// Concrete factory kinds embed or implement this interface; callers retrieve
// the kind they expect with registry.FactoryAs and get a zero value when the
// attached factory is of a different kind.
type Factory interface {
	New() any
}
