// Copyright 2026 GreenMatch Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"fmt"
	"log/slog"
	"strings"
)

const (
	DefaultBlockCacheSize uint64 = 256 << 20 // 256MiB
	DefaultIndexCacheSize uint64 = 128 << 20 // 128MiB
)

type BlobStoreBadgerOptionFunc func(*BlobStoreBadger)

// WithLogger specifies the logger to use. This defaults to discarding log
// output
func WithLogger(logger *slog.Logger) BlobStoreBadgerOptionFunc {
	return func(b *BlobStoreBadger) {
		b.logger = logger
	}
}

// WithDataDir specifies the persistent data directory to use. This defaults
// to an empty string, which puts the store in in-memory mode
func WithDataDir(dataDir string) BlobStoreBadgerOptionFunc {
	return func(b *BlobStoreBadger) {
		b.dataDir = dataDir
	}
}

// WithBlockCacheSize specifies the size of the block cache in bytes
func WithBlockCacheSize(size uint64) BlobStoreBadgerOptionFunc {
	return func(b *BlobStoreBadger) {
		b.blockCacheSize = size
	}
}

// WithIndexCacheSize specifies the size of the index cache in bytes
func WithIndexCacheSize(size uint64) BlobStoreBadgerOptionFunc {
	return func(b *BlobStoreBadger) {
		b.indexCacheSize = size
	}
}

// WithGc enables or disables the periodic value log GC
func WithGc(enabled bool) BlobStoreBadgerOptionFunc {
	return func(b *BlobStoreBadger) {
		b.gcEnabled = enabled
	}
}

// BadgerLogger is a wrapper type to give our logger the interface expected
// by badger
type BadgerLogger struct {
	*slog.Logger
}

func NewBadgerLogger(logger *slog.Logger) *BadgerLogger {
	return &BadgerLogger{Logger: logger}
}

func (b *BadgerLogger) Infof(msg string, args ...any) {
	if b.Logger == nil {
		return
	}
	b.Logger.Info(
		strings.TrimSuffix(fmt.Sprintf(msg, args...), "\n"),
	)
}

func (b *BadgerLogger) Warningf(msg string, args ...any) {
	if b.Logger == nil {
		return
	}
	b.Logger.Warn(
		strings.TrimSuffix(fmt.Sprintf(msg, args...), "\n"),
	)
}

func (b *BadgerLogger) Debugf(msg string, args ...any) {
	if b.Logger == nil {
		return
	}
	b.Logger.Debug(
		strings.TrimSuffix(fmt.Sprintf(msg, args...), "\n"),
	)
}

func (b *BadgerLogger) Errorf(msg string, args ...any) {
	if b.Logger == nil {
		return
	}
	b.Logger.Error(
		strings.TrimSuffix(fmt.Sprintf(msg, args...), "\n"),
	)
}
