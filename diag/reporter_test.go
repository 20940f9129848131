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

package diag_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"dirpx.dev/tfx/diag"
)

var errSample = errors.New("sample failure")

func TestCodingError_LoggedAndCounted(t *testing.T) {
	rep, logs := diag.NewObserved(zapcore.DebugLevel)

	rep.CodingError(errSample, "bad registration", "type", "geom.Mesh")

	require.Equal(t, int64(1), rep.CodingErrors())
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "bad registration", entries[0].Message)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "coding_error", ctx["kind"])
	assert.Equal(t, "geom.Mesh", ctx["type"])
	assert.Equal(t, errSample.Error(), ctx["error"])
}

func TestWarningAndStatus(t *testing.T) {
	rep, logs := diag.NewObserved(zapcore.InfoLevel)

	rep.Warning("suspicious")
	rep.Status("loaded", "plugin", "fast")

	assert.Equal(t, int64(1), rep.Warnings())
	assert.Equal(t, int64(0), rep.CodingErrors())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	assert.Equal(t, 1, logs.FilterMessage("loaded").Len())
}

func TestNop_StillCounts(t *testing.T) {
	rep := diag.Nop()
	rep.CodingError(errSample, "ignored")
	rep.CodingError(errSample, "ignored")
	assert.Equal(t, int64(2), rep.CodingErrors())
}

func TestNewLogger_UnknownLevelFallsBack(t *testing.T) {
	logger := diag.NewLogger("not-a-level")
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
}
