// Package types defines the domain types shared by the leafgate packages:
// on-chain leaf records, payment claims and events, chat request/response
// shapes, and the error taxonomy.
package types

import "math/big"

// Leaf is the raw on-chain record returned by the LeafNFT contract's
// getLeaf view. Field names follow the contract tuple layout. Values are
// authoritative only at the instant they were read; callers must re-read
// before every authorization decision.
type Leaf struct {
	Name            string
	PersonalityNote string
	PricePerMessage *big.Int
	IsActive        bool
	CreatedAt       *big.Int
	TotalMessages   *big.Int
}

// LeafView is the API-facing projection of a Leaf. PricePerMessage is a
// decimal string in the smallest currency unit because uint256 amounts do
// not fit native integers.
type LeafView struct {
	LeafID          uint64 `json:"leafId"`
	Name            string `json:"name"`
	PersonalityNote string `json:"personalityNote"`
	PricePerMessage string `json:"pricePerMessage"`
	IsActive        bool   `json:"isActive"`
	TotalMessages   string `json:"totalMessages"`
	CreatedAt       string `json:"createdAt"`
}

// PaymentClaim is the untrusted, client-supplied assertion that a
// transaction paid for one message to a leaf. It exists only for the
// duration of a single verification.
type PaymentClaim struct {
	TxHash string
	LeafID uint64
	Payer  string
}

// PaymentEvent is a decoded MessagePaid event emitted by the payment
// gateway contract. LeafID, Payer and LeafOwner come from the indexed
// topics; the amounts and timestamp from the event body.
type PaymentEvent struct {
	Contract    string
	LeafID      *big.Int
	Payer       string
	LeafOwner   string
	TotalAmount *big.Int
	PlatformFee *big.Int
	OwnerAmount *big.Int
	Timestamp   *big.Int
}

// ChatMessage is one caller-supplied history element. History is treated
// as display text only and is capped before prompt construction.
type ChatMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ChatRequest is the inbound verify-and-chat payload.
type ChatRequest struct {
	LeafID              uint64        `json:"leafId" validate:"required,gt=0"`
	Message             string        `json:"message" validate:"required"`
	ConversationHistory []ChatMessage `json:"conversationHistory"`
	TxHash              string        `json:"txHash" validate:"required,tx_hash"`
	UserAddress         string        `json:"userAddress" validate:"required,eth_addr"`
}

// ChatResponse is the assembled reply for a successfully gated request.
type ChatResponse struct {
	LeafID    uint64 `json:"leafId"`
	LeafName  string `json:"leafName"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
