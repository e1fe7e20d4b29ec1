// Package entity reads the current state of a chat-able leaf. It is a pure
// read-through over the chain reader: no caching, no mutation. An inactive
// leaf is a valid state, not an error.
package entity

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leafprotocol/leafgate/chain"
	"github.com/leafprotocol/leafgate/types"
)

type Accessor struct {
	reader chain.Reader
}

func NewAccessor(reader chain.Reader) *Accessor {
	return &Accessor{reader: reader}
}

// Load reads the raw on-chain record for a leaf. Not-found and transient
// errors from the reader pass through unchanged.
func (a *Accessor) Load(ctx context.Context, leafID uint64) (*types.Leaf, error) {
	return a.reader.GetLeaf(ctx, leafID)
}

// LoadView reads a leaf and projects it into its API shape, with the wei
// price rendered as a decimal string and the creation time as RFC 3339.
func (a *Accessor) LoadView(ctx context.Context, leafID uint64) (*types.LeafView, error) {
	leaf, err := a.reader.GetLeaf(ctx, leafID)
	if err != nil {
		return nil, err
	}

	view := &types.LeafView{
		LeafID:          leafID,
		Name:            leaf.Name,
		PersonalityNote: leaf.PersonalityNote,
		IsActive:        leaf.IsActive,
	}
	if leaf.PricePerMessage != nil {
		view.PricePerMessage = decimal.NewFromBigInt(leaf.PricePerMessage, 0).String()
	}
	if leaf.TotalMessages != nil {
		view.TotalMessages = leaf.TotalMessages.String()
	}
	if leaf.CreatedAt != nil {
		view.CreatedAt = time.Unix(leaf.CreatedAt.Int64(), 0).UTC().Format(time.RFC3339)
	}
	return view, nil
}
