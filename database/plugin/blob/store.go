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

package blob

import (
	"fmt"

	"github.com/greenmatch-io/greenmatch/database/plugin"
	"github.com/greenmatch-io/greenmatch/database/types"
)

// BlobStore is the interface for immutable blob storage. It holds the
// CBOR-encoded proof receipts written alongside each committed match.
type BlobStore interface {
	Close() error
	NewTransaction(readWrite bool) types.Txn
	Get(txn types.Txn, key []byte) ([]byte, error)
	Set(txn types.Txn, key []byte, value []byte) error
	Delete(txn types.Txn, key []byte) error
	NewIterator(txn types.Txn, opts types.BlobIteratorOptions) types.BlobIterator

	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(types.Txn, int64) error
}

// New returns the started blob plugin selected by name
func New(pluginName, dataDir string) (BlobStore, error) {
	// Override the plugin's data directory before instantiation
	if dataDir != "" {
		if err := plugin.SetPluginOption(
			plugin.PluginTypeBlob,
			pluginName,
			"data-dir",
			dataDir,
		); err != nil {
			return nil, err
		}
	}

	// Get and start the plugin
	p, err := plugin.StartPlugin(plugin.PluginTypeBlob, pluginName)
	if err != nil {
		return nil, err
	}

	// Type assert to BlobStore interface
	blobStore, ok := p.(BlobStore)
	if !ok {
		return nil, fmt.Errorf(
			"plugin '%s' does not implement BlobStore interface",
			pluginName,
		)
	}

	return blobStore, nil
}
