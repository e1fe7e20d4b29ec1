// Package events locates and decodes the MessagePaid payment-confirmation
// event inside a transaction outcome. Matching is exact: the emitting
// address must be the configured payment gateway contract and the first
// topic must equal the canonical event signature hash. Counting indexed
// fields is not good enough; unrelated events can share a field count.
package events

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/leafprotocol/leafgate/chain"
	"github.com/leafprotocol/leafgate/types"
)

// ABI fragment for the PaymentGateway contract's MessagePaid event.
const paymentGatewayABI = `
[
  {
    "inputs": [
      { "indexed": true, "name": "leafId", "type": "uint256" },
      { "indexed": true, "name": "user", "type": "address" },
      { "indexed": true, "name": "leafOwner", "type": "address" },
      { "indexed": false, "name": "totalAmount", "type": "uint256" },
      { "indexed": false, "name": "platformFee", "type": "uint256" },
      { "indexed": false, "name": "ownerAmount", "type": "uint256" },
      { "indexed": false, "name": "timestamp", "type": "uint256" }
    ],
    "name": "MessagePaid",
    "type": "event",
    "anonymous": false
  }
]
`

// Decoder matches and decodes MessagePaid events. The canonical signature
// hash is computed once at construction.
type Decoder struct {
	event   abi.Event
	eventID common.Hash
}

// NewDecoder parses the event schema and precomputes its signature hash.
func NewDecoder() (*Decoder, error) {
	parsed, err := abi.JSON(strings.NewReader(paymentGatewayABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse payment gateway ABI: %w", err)
	}

	event, ok := parsed.Events["MessagePaid"]
	if !ok {
		return nil, fmt.Errorf("payment gateway ABI missing MessagePaid event")
	}

	return &Decoder{event: event, eventID: event.ID}, nil
}

// EventID returns the canonical MessagePaid signature hash (topic0).
func (d *Decoder) EventID() common.Hash {
	return d.eventID
}

// FindPaymentEvent scans the outcome's logs for a MessagePaid event emitted
// by gatewayAddr. Address comparison is case-insensitive; the signature must
// match exactly. A missing event is not an error, it means the claim is
// unproven.
func (d *Decoder) FindPaymentEvent(outcome *chain.TxOutcome, gatewayAddr string) (*types.PaymentEvent, bool) {
	if outcome == nil {
		return nil, false
	}

	for _, log := range outcome.Logs {
		if log == nil {
			continue
		}
		if !strings.EqualFold(log.Address.Hex(), gatewayAddr) {
			continue
		}
		if len(log.Topics) != 4 || log.Topics[0] != d.eventID {
			continue
		}

		ev, err := d.decode(log)
		if err != nil {
			continue
		}
		return ev, true
	}

	return nil, false
}

func (d *Decoder) decode(log *ethtypes.Log) (*types.PaymentEvent, error) {
	var indexed struct {
		LeafId    *big.Int
		User      common.Address
		LeafOwner common.Address
	}
	if err := abi.ParseTopics(&indexed, indexedArguments(d.event.Inputs), log.Topics[1:]); err != nil {
		return nil, fmt.Errorf("failed to decode indexed topics: %w", err)
	}

	body, err := d.event.Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode event body: %w", err)
	}
	if len(body) != 4 {
		return nil, fmt.Errorf("unexpected event body arity %d", len(body))
	}

	totalAmount, ok1 := body[0].(*big.Int)
	platformFee, ok2 := body[1].(*big.Int)
	ownerAmount, ok3 := body[2].(*big.Int)
	timestamp, ok4 := body[3].(*big.Int)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, fmt.Errorf("unexpected event body types")
	}

	return &types.PaymentEvent{
		Contract:    log.Address.Hex(),
		LeafID:      indexed.LeafId,
		Payer:       indexed.User.Hex(),
		LeafOwner:   indexed.LeafOwner.Hex(),
		TotalAmount: totalAmount,
		PlatformFee: platformFee,
		OwnerAmount: ownerAmount,
		Timestamp:   timestamp,
	}, nil
}

func indexedArguments(args abi.Arguments) abi.Arguments {
	var indexed abi.Arguments
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}
