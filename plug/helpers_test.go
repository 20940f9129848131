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

package plug_test

import (
	"fmt"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dirpx.dev/tfx/diag"
	"dirpx.dev/tfx/plug"
	"dirpx.dev/tfx/registry"
)

func newPlugins(t *testing.T) (*plug.Registry, *observer.ObservedLogs) {
	t.Helper()
	rep, logs := diag.NewObserved(zapcore.DebugLevel)
	return plug.New(registry.New(registry.WithReporter(rep))), logs
}

func codingErrors(logs *observer.ObservedLogs) []string {
	var out []string
	for _, e := range logs.All() {
		ctx := e.ContextMap()
		if ctx["kind"] == "coding_error" {
			out = append(out, fmt.Sprint(ctx["error"]))
		}
	}
	return out
}

func names(ts []registry.Type) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.TypeName()
	}
	return out
}
