package leafgate_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafprotocol/leafgate"
	"github.com/leafprotocol/leafgate/chain"
	"github.com/leafprotocol/leafgate/events"
	"github.com/leafprotocol/leafgate/replay"
	"github.com/leafprotocol/leafgate/types"
)

const (
	gatewayAddr = "0xabCDef0000000000000000000000000000000001"
	payerAddr   = "0xAaaa0000000000000000000000000000000000A1"
	ownerAddr   = "0xBbbb0000000000000000000000000000000000B2"
	txHash      = "0x1111111111111111111111111111111111111111111111111111111111111111"
)

type fakeReader struct {
	outcome      *chain.TxOutcome
	outcomeErr   error
	leaf         *types.Leaf
	leafErr      error
	outcomeCalls int
	leafCalls    int
}

func (f *fakeReader) TransactionOutcome(context.Context, string) (*chain.TxOutcome, error) {
	f.outcomeCalls++
	if f.outcomeErr != nil {
		return nil, f.outcomeErr
	}
	return f.outcome, nil
}

func (f *fakeReader) GetLeaf(context.Context, uint64) (*types.Leaf, error) {
	f.leafCalls++
	if f.leafErr != nil {
		return nil, f.leafErr
	}
	return f.leaf, nil
}

func (f *fakeReader) OwnerOf(context.Context, uint64) (common.Address, error) {
	return common.HexToAddress(ownerAddr), nil
}

func (f *fakeReader) TotalLeaves(context.Context) (uint64, error) { return 1, nil }

type fakeGenerator struct {
	reply string
	err   error
	calls int
}

func (f *fakeGenerator) Generate(context.Context, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func paidOutcome(t *testing.T, leafID int64, payer string, amount int64) *chain.TxOutcome {
	t.Helper()
	decoder, err := events.NewDecoder()
	require.NoError(t, err)

	var data []byte
	for _, n := range []int64{amount, amount / 20, amount - amount/20, 1700000000} {
		data = append(data, common.LeftPadBytes(big.NewInt(n).Bytes(), 32)...)
	}

	return &chain.TxOutcome{
		Status: ethtypes.ReceiptStatusSuccessful,
		To:     gatewayAddr,
		Logs: []*ethtypes.Log{{
			Address: common.HexToAddress(gatewayAddr),
			Topics: []common.Hash{
				decoder.EventID(),
				common.BigToHash(big.NewInt(leafID)),
				common.BytesToHash(common.LeftPadBytes(common.HexToAddress(payer).Bytes(), 32)),
				common.BytesToHash(common.LeftPadBytes(common.HexToAddress(ownerAddr).Bytes(), 32)),
			},
			Data: data,
		}},
	}
}

func activeLeaf(price int64) *types.Leaf {
	return &types.Leaf{
		Name:            "Ada",
		PersonalityNote: "curious, direct",
		PricePerMessage: big.NewInt(price),
		IsActive:        true,
		CreatedAt:       big.NewInt(1700000000),
		TotalMessages:   big.NewInt(7),
	}
}

func chatRequest() *types.ChatRequest {
	return &types.ChatRequest{
		LeafID:      1,
		Message:     "hello",
		TxHash:      txHash,
		UserAddress: payerAddr,
	}
}

func newGateway(t *testing.T, reader chain.Reader, gen *fakeGenerator, opts ...leafgate.Option) *leafgate.Gateway {
	t.Helper()
	gw, err := leafgate.New(reader, gen, gatewayAddr, opts...)
	require.NoError(t, err)
	return gw
}

// A verified payment for the requested leaf and payer yields one generated
// reply.
func TestChatAuthorized(t *testing.T) {
	reader := &fakeReader{outcome: paidOutcome(t, 1, payerAddr, 1000), leaf: activeLeaf(1000)}
	gen := &fakeGenerator{reply: "hello back"}
	gw := newGateway(t, reader, gen)

	resp, err := gw.Chat(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resp.LeafID)
	assert.Equal(t, "Ada", resp.LeafName)
	assert.Equal(t, "hello back", resp.Message)
	assert.NotEmpty(t, resp.Timestamp)
	assert.Equal(t, 1, gen.calls)
}

// A failed transaction denies the chat regardless of event
// contents.
func TestChatDeniedOnFailedTransaction(t *testing.T) {
	outcome := paidOutcome(t, 1, payerAddr, 1000)
	outcome.Status = ethtypes.ReceiptStatusFailed
	reader := &fakeReader{outcome: outcome, leaf: activeLeaf(1000)}
	gen := &fakeGenerator{reply: "unused"}
	gw := newGateway(t, reader, gen)

	_, err := gw.Chat(context.Background(), chatRequest())
	require.Error(t, err)
	assert.Equal(t, types.KindDenied, types.KindOf(err))
	assert.Equal(t, types.ReasonTransactionFailed, types.CodeOf(err))
	assert.Zero(t, gen.calls)
}

// An inactive leaf terminates the request before any
// completion call.
func TestChatInactiveLeaf(t *testing.T) {
	leaf := activeLeaf(1000)
	leaf.IsActive = false
	reader := &fakeReader{outcome: paidOutcome(t, 1, payerAddr, 1000), leaf: leaf}
	gen := &fakeGenerator{reply: "unused"}
	gw := newGateway(t, reader, gen)

	_, err := gw.Chat(context.Background(), chatRequest())
	require.Error(t, err)
	assert.Equal(t, types.KindDenied, types.KindOf(err))
	assert.Equal(t, types.ReasonLeafInactive, types.CodeOf(err))
	assert.Zero(t, gen.calls)
}

// An unknown leaf id surfaces as not-found before any completion
// call.
func TestChatLeafNotFound(t *testing.T) {
	reader := &fakeReader{
		outcome: paidOutcome(t, 1, payerAddr, 1000),
		leafErr: types.NewNotFound("no such leaf"),
	}
	gen := &fakeGenerator{reply: "unused"}
	gw := newGateway(t, reader, gen)

	_, err := gw.Chat(context.Background(), chatRequest())
	require.Error(t, err)
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
	assert.Zero(t, gen.calls)
}

// A ledger timeout surfaces as transient, distinct from a
// denial.
func TestChatLedgerTimeout(t *testing.T) {
	reader := &fakeReader{outcomeErr: types.NewTransient("node timeout", errors.New("deadline exceeded"))}
	gw := newGateway(t, reader, &fakeGenerator{})

	_, err := gw.Chat(context.Background(), chatRequest())
	require.Error(t, err)
	assert.Equal(t, types.KindTransient, types.KindOf(err))
	assert.NotEqual(t, types.KindDenied, types.KindOf(err))
}

func TestChatMissingFieldsSkipsLedger(t *testing.T) {
	reader := &fakeReader{outcome: paidOutcome(t, 1, payerAddr, 1000), leaf: activeLeaf(1000)}
	gw := newGateway(t, reader, &fakeGenerator{})

	req := chatRequest()
	req.TxHash = ""

	_, err := gw.Chat(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, types.KindInput, types.KindOf(err))
	assert.Zero(t, reader.outcomeCalls)
	assert.Zero(t, reader.leafCalls)
}

func TestChatRejectsMalformedAddress(t *testing.T) {
	reader := &fakeReader{}
	gw := newGateway(t, reader, &fakeGenerator{})

	req := chatRequest()
	req.UserAddress = "not-an-address"

	_, err := gw.Chat(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, types.KindInput, types.KindOf(err))
	assert.Zero(t, reader.outcomeCalls)
}

func TestChatGenerationFailureIsInternal(t *testing.T) {
	reader := &fakeReader{outcome: paidOutcome(t, 1, payerAddr, 1000), leaf: activeLeaf(1000)}
	gen := &fakeGenerator{err: errors.New("upstream 500")}
	gw := newGateway(t, reader, gen)

	_, err := gw.Chat(context.Background(), chatRequest())
	require.Error(t, err)
	// Generation failure must never read as a payment failure.
	assert.Equal(t, types.KindInternal, types.KindOf(err))
}

func TestChatReplayGuardEndToEnd(t *testing.T) {
	reader := &fakeReader{outcome: paidOutcome(t, 1, payerAddr, 1000), leaf: activeLeaf(1000)}
	gen := &fakeGenerator{reply: "once"}
	gw := newGateway(t, reader, gen, leafgate.WithReplayGuard(replay.NewMemoryGuard()))

	_, err := gw.Chat(context.Background(), chatRequest())
	require.NoError(t, err)

	_, err = gw.Chat(context.Background(), chatRequest())
	require.Error(t, err)
	assert.Equal(t, types.KindDenied, types.KindOf(err))
	assert.Equal(t, types.ReasonReferenceReplayed, types.CodeOf(err))
	assert.Equal(t, 1, gen.calls)
}

func TestChatCurrentPriceEnforcement(t *testing.T) {
	// Paid 1000 but the leaf now charges 2000.
	reader := &fakeReader{outcome: paidOutcome(t, 1, payerAddr, 1000), leaf: activeLeaf(2000)}
	gen := &fakeGenerator{reply: "unused"}
	gw := newGateway(t, reader, gen, leafgate.WithCurrentPriceEnforcement())

	_, err := gw.Chat(context.Background(), chatRequest())
	require.Error(t, err)
	assert.Equal(t, types.ReasonInsufficientAmount, types.CodeOf(err))
	assert.Zero(t, gen.calls)

	// Default policy honors the price at payment time.
	gwDefault := newGateway(t, reader, gen)
	_, err = gwDefault.Chat(context.Background(), chatRequest())
	require.NoError(t, err)
}

func TestLeafInfo(t *testing.T) {
	reader := &fakeReader{leaf: activeLeaf(1000)}
	gw := newGateway(t, reader, &fakeGenerator{})

	view, err := gw.LeafInfo(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Ada", view.Name)
	assert.Equal(t, "1000", view.PricePerMessage)

	_, err = gw.LeafInfo(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, types.KindInput, types.KindOf(err))
}
