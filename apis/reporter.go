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

// Reporter is the diagnostic channel used to report misuse of the type
// system. Reporting never aborts the caller.
//
// keysAndValues follow the zap "sugared" convention of alternating keys and
// values.
type Reporter interface {
	// CodingError reports caller misuse. err is a sentinel describing the
	// class of mistake.
	CodingError(err error, msg string, keysAndValues ...any)
	// Warning reports a suspicious but tolerated condition.
	Warning(msg string, keysAndValues ...any)
	// Status reports informational progress (e.g. plugin loads).
	Status(msg string, keysAndValues ...any)
}
