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

package gcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"cloud.google.com/go/storage"
	"github.com/greenmatch-io/greenmatch/database/types"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const opTimeout = 30 * time.Second

// BlobStoreGCS stores blobs as objects in a Google Cloud Storage bucket.
// Writes are buffered per transaction and flushed to the bucket on Commit.
// GCS has no multi-object transactions, so a flush interrupted mid-way can
// leave a partial write; the commit timestamp check on startup detects this.
type BlobStoreGCS struct {
	metrics         *blobMetrics
	promRegistry    prometheus.Registerer
	logger          *GcsLogger
	client          *storage.Client
	bucket          *storage.BucketHandle
	bucketName      string
	credentialsFile string
}

// NewWithOptions creates a new GCS-backed blob store using options. The
// client connection is not established until Start()
func NewWithOptions(opts ...BlobStoreGCSOptionFunc) (*BlobStoreGCS, error) {
	db := &BlobStoreGCS{}
	for _, opt := range opts {
		opt(db)
	}
	if db.logger == nil {
		db.logger = NewGcsLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	}
	return db, nil
}

// Start implements the plugin.Plugin interface
func (d *BlobStoreGCS) Start() error {
	if d.bucketName == "" {
		return errors.New("gcs blob: bucket not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var clientOpts []option.ClientOption
	clientOpts = append(clientOpts, storage.WithDisabledClientMetrics())
	if d.credentialsFile != "" {
		clientOpts = append(
			clientOpts,
			option.WithCredentialsFile(d.credentialsFile),
		)
	}

	client, err := storage.NewGRPCClient(ctx, clientOpts...)
	if err != nil {
		return fmt.Errorf(
			"gcs blob: failed in creating storage client: %w",
			err,
		)
	}

	d.client = client
	d.bucket = client.Bucket(d.bucketName)

	if d.promRegistry != nil {
		d.metrics = registerBlobMetrics(d.promRegistry)
	}
	return nil
}

// Stop implements the plugin.Plugin interface
func (d *BlobStoreGCS) Stop() error {
	return d.Close()
}

// Close closes the GCS client
func (d *BlobStoreGCS) Close() error {
	if d.client == nil {
		return nil
	}
	err := d.client.Close()
	d.client = nil
	return err
}

// Client returns the GCS client
func (d *BlobStoreGCS) Client() *storage.Client {
	return d.client
}

// Bucket returns the bucket handle
func (d *BlobStoreGCS) Bucket() *storage.BucketHandle {
	return d.bucket
}

// gcsTxn buffers writes and deletes until Commit
type gcsTxn struct {
	store     *BlobStoreGCS
	pending   map[string][]byte
	deleted   map[string]struct{}
	readWrite bool
	finished  bool
}

func (t *gcsTxn) Commit() error {
	if t.finished {
		return nil
	}
	t.finished = true
	if !t.readWrite {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	for key, val := range t.pending {
		w := t.store.bucket.Object(key).NewWriter(ctx)
		if _, err := w.Write(val); err != nil {
			_ = w.Close()
			return fmt.Errorf("gcs blob: failed to write %s: %w", key, err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("gcs blob: failed to write %s: %w", key, err)
		}
	}
	for key := range t.deleted {
		err := t.store.bucket.Object(key).Delete(ctx)
		if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("gcs blob: failed to delete %s: %w", key, err)
		}
	}
	return nil
}

func (t *gcsTxn) Rollback() error {
	t.finished = true
	t.pending = nil
	t.deleted = nil
	return nil
}

func (d *BlobStoreGCS) validateTxn(txn types.Txn) (*gcsTxn, error) {
	if txn == nil {
		return nil, types.ErrNilTxn
	}
	gcsTxn, ok := txn.(*gcsTxn)
	if !ok {
		return nil, types.ErrTxnWrongType
	}
	if gcsTxn.store != d {
		return nil, errors.New("transaction from different store")
	}
	if gcsTxn.finished {
		return nil, errors.New("transaction already finished")
	}
	if d.bucket == nil {
		return nil, types.ErrBlobStoreUnavailable
	}
	return gcsTxn, nil
}

// NewTransaction creates a new buffered transaction
func (d *BlobStoreGCS) NewTransaction(readWrite bool) types.Txn {
	return &gcsTxn{
		store:     d,
		pending:   map[string][]byte{},
		deleted:   map[string]struct{}{},
		readWrite: readWrite,
	}
}

// Get retrieves a value, preferring uncommitted writes from the transaction
func (d *BlobStoreGCS) Get(txn types.Txn, key []byte) ([]byte, error) {
	gcsTxn, err := d.validateTxn(txn)
	if err != nil {
		return nil, err
	}
	if val, ok := gcsTxn.pending[string(key)]; ok {
		return bytes.Clone(val), nil
	}
	if _, ok := gcsTxn.deleted[string(key)]; ok {
		return nil, types.ErrBlobKeyNotFound
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	r, err := d.bucket.Object(string(key)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, types.ErrBlobKeyNotFound
		}
		return nil, err
	}
	defer r.Close()
	val, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	d.metrics.observeGet()
	return val, nil
}

// Set stages a key-value pair for write on Commit
func (d *BlobStoreGCS) Set(txn types.Txn, key, val []byte) error {
	gcsTxn, err := d.validateTxn(txn)
	if err != nil {
		return err
	}
	if !gcsTxn.readWrite {
		return errors.New("cannot write in read-only transaction")
	}
	delete(gcsTxn.deleted, string(key))
	gcsTxn.pending[string(key)] = bytes.Clone(val)
	d.metrics.observeSet()
	return nil
}

// Delete stages a key for deletion on Commit
func (d *BlobStoreGCS) Delete(txn types.Txn, key []byte) error {
	gcsTxn, err := d.validateTxn(txn)
	if err != nil {
		return err
	}
	if !gcsTxn.readWrite {
		return errors.New("cannot write in read-only transaction")
	}
	delete(gcsTxn.pending, string(key))
	gcsTxn.deleted[string(key)] = struct{}{}
	d.metrics.observeDelete()
	return nil
}

// gcsIterator iterates over a snapshot of object names taken at creation
// time, merged with the transaction's uncommitted writes
type gcsIterator struct {
	store  *BlobStoreGCS
	keys   []string
	prefix []byte
	pos    int
	err    error
}

func (it *gcsIterator) Rewind()            { it.pos = 0 }
func (it *gcsIterator) Seek(prefix []byte) {
	it.pos = sort.SearchStrings(it.keys, string(prefix))
}
func (it *gcsIterator) Valid() bool { return it.err == nil && it.pos < len(it.keys) }
func (it *gcsIterator) ValidForPrefix(p []byte) bool {
	return it.Valid() && bytes.HasPrefix([]byte(it.keys[it.pos]), p)
}
func (it *gcsIterator) Next() { it.pos++ }
func (it *gcsIterator) Item() types.BlobItem {
	return &gcsItem{store: it.store, key: it.keys[it.pos]}
}
func (it *gcsIterator) Close()     {}
func (it *gcsIterator) Err() error { return it.err }

type gcsItem struct {
	store *BlobStoreGCS
	key   string
}

func (i *gcsItem) Key() []byte {
	return []byte(i.key)
}

func (i *gcsItem) ValueCopy(dst []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	r, err := i.store.bucket.Object(i.key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, types.ErrBlobKeyNotFound
		}
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// NewIterator lists bucket objects matching the prefix. The listing is a
// point-in-time snapshot
func (d *BlobStoreGCS) NewIterator(
	txn types.Txn,
	opts types.BlobIteratorOptions,
) types.BlobIterator {
	gcsTxn, err := d.validateTxn(txn)
	if err != nil {
		return &gcsIterator{err: err}
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	keySet := map[string]struct{}{}
	objIter := d.bucket.Objects(
		ctx,
		&storage.Query{Prefix: string(opts.Prefix)},
	)
	for {
		attrs, err := objIter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return &gcsIterator{err: err}
		}
		keySet[attrs.Name] = struct{}{}
	}
	// Merge in uncommitted transaction state
	for key := range gcsTxn.pending {
		if bytes.HasPrefix([]byte(key), opts.Prefix) {
			keySet[key] = struct{}{}
		}
	}
	for key := range gcsTxn.deleted {
		delete(keySet, key)
	}
	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if opts.Reverse {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}
	return &gcsIterator{store: d, keys: keys, prefix: opts.Prefix}
}
