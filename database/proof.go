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

package database

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ProofReceipt is the immutable audit copy of an issued proof token,
// written to the blob store in the same transaction as its match record
type ProofReceipt struct {
	ContentHash []byte `cbor:"1,keyasint"`
	ProofID     string `cbor:"2,keyasint"`
	Recipient   string `cbor:"3,keyasint"`
	MatchID     uint64 `cbor:"4,keyasint"`
	Amount      uint64 `cbor:"5,keyasint"`
	Height      uint64 `cbor:"6,keyasint"`
}

// ProofReceiptBlobKey generates the blob key for a proof receipt
func ProofReceiptBlobKey(contentHash []byte) []byte {
	return fmt.Appendf(nil, "proof/%s", hex.EncodeToString(contentHash))
}

// SetProofReceipt stores a proof receipt in the blob store
func (d *Database) SetProofReceipt(receipt *ProofReceipt, txn *Txn) error {
	owned := false
	if txn == nil {
		txn = d.BlobTxn(true)
		owned = true
		defer func() {
			if owned {
				txn.Rollback() //nolint:errcheck
			}
		}()
	}
	val, err := cbor.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("failed to encode proof receipt: %w", err)
	}
	key := ProofReceiptBlobKey(receipt.ContentHash)
	if err := d.blob.Set(txn.Blob(), key, val); err != nil {
		return fmt.Errorf("failed to store proof receipt: %w", err)
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		owned = false
	}
	return nil
}

// GetProofReceipt returns the proof receipt for a content hash
func (d *Database) GetProofReceipt(
	contentHash []byte,
	txn *Txn,
) (*ProofReceipt, error) {
	owned := false
	if txn == nil {
		txn = d.BlobTxn(false)
		owned = true
		defer func() {
			if owned {
				txn.Rollback() //nolint:errcheck
			}
		}()
	}
	key := ProofReceiptBlobKey(contentHash)
	val, err := d.blob.Get(txn.Blob(), key)
	if err != nil {
		return nil, err
	}
	ret := &ProofReceipt{}
	if err := cbor.Unmarshal(val, ret); err != nil {
		return nil, fmt.Errorf("failed to decode proof receipt: %w", err)
	}
	return ret, nil
}
