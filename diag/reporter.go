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

// Package diag is the diagnostic channel of the type system.
//
// Misuse of the registration API (conflicting definitions, invalid casts,
// duplicate factories) is never fatal: it is reported here and the caller
// receives a safe sentinel. Reports go to a zap logger and coding errors are
// counted so hosts and tests can detect them.
package diag

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dirpx.dev/tfx/apis"
)

var _ apis.Reporter = (*Reporter)(nil)

// Reporter is a zap-backed apis.Reporter.
type Reporter struct {
	log    *zap.SugaredLogger
	errors atomic.Int64
	warns  atomic.Int64
}

// New wraps logger. A nil logger discards every report but still counts.
func New(logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{log: logger.Named("tfx").Sugar()}
}

// Nop returns a Reporter that discards output.
func Nop() *Reporter {
	return New(nil)
}

// NewObserved returns a Reporter whose entries are captured in memory at or
// above level. Meant for tests and tooling that assert on diagnostics.
func NewObserved(level zapcore.Level) (*Reporter, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return New(zap.New(core)), logs
}

// CodingError logs err at error level with kind=coding_error.
func (r *Reporter) CodingError(err error, msg string, keysAndValues ...any) {
	r.errors.Add(1)
	kv := make([]any, 0, len(keysAndValues)+4)
	kv = append(kv, "kind", "coding_error", "error", err)
	kv = append(kv, keysAndValues...)
	r.log.Errorw(msg, kv...)
}

// Warning logs at warn level.
func (r *Reporter) Warning(msg string, keysAndValues ...any) {
	r.warns.Add(1)
	r.log.Warnw(msg, keysAndValues...)
}

// Status logs at info level.
func (r *Reporter) Status(msg string, keysAndValues ...any) {
	r.log.Infow(msg, keysAndValues...)
}

// CodingErrors returns how many coding errors were reported.
func (r *Reporter) CodingErrors() int64 {
	return r.errors.Load()
}

// Warnings returns how many warnings were reported.
func (r *Reporter) Warnings() int64 {
	return r.warns.Load()
}

// Sync flushes the underlying logger.
func (r *Reporter) Sync() error {
	return r.log.Sync()
}
