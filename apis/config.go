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

// Config carries read-only knobs that influence canonical naming, lookup and
// diagnostics. It is passed by value and should be treated as immutable by
// implementations.
type Config struct {
	// IncludeBuiltins controls whether builtin/no-package named types
	// (e.g., "int", "string") receive canonical names. If false, such cases yield "".
	IncludeBuiltins bool

	// MaxUnwrap limits how many pointer layers are stripped when a value or
	// type is normalized before lookup (e.g. **T -> T).
	MaxUnwrap int

	// QualifyPackages makes canonical names use the full import path
	// ("example.com/x/geom.Mesh") instead of the last path element ("geom.Mesh").
	QualifyPackages bool

	// LogLevel is the minimum level for diagnostics ("debug", "info", "warn", "error").
	LogLevel string
}
