// Package chain provides the read-only ledger client the gateway consults
// for transaction outcomes and leaf records. It performs no retries and no
// writes; callers get a clear distinction between "does not exist" and
// "could not be determined right now".
package chain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/leafprotocol/leafgate/types"
)

// TxOutcome is the immutable view of a mined transaction: its status, the
// address it was sent to, and the events it emitted.
type TxOutcome struct {
	Status uint64
	To     string
	Logs   []*ethtypes.Log
}

// Succeeded reports whether the transaction executed successfully.
func (o *TxOutcome) Succeeded() bool {
	return o.Status == ethtypes.ReceiptStatusSuccessful
}

// Reader is the constructed dependency through which all ledger reads flow.
// Implementations must surface unknown references and ids as a
// types.KindNotFound error and transport problems as types.KindTransient,
// never conflating the two.
type Reader interface {
	// TransactionOutcome resolves a transaction reference to its mined
	// outcome.
	TransactionOutcome(ctx context.Context, txHash string) (*TxOutcome, error)

	// GetLeaf reads the current on-chain record for a leaf id.
	GetLeaf(ctx context.Context, leafID uint64) (*types.Leaf, error)

	// OwnerOf returns the current owner address of a leaf.
	OwnerOf(ctx context.Context, leafID uint64) (common.Address, error)

	// TotalLeaves returns the number of leaves ever minted.
	TotalLeaves(ctx context.Context) (uint64, error)
}
