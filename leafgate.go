// Package leafgate implements a proof-of-payment gateway for a metered
// AI-chat service. Chat-able "leaves" live on an EVM ledger; a client must
// present a transaction reference proving a successful on-chain payment for
// a specific (leaf, payer) pair before the gateway will generate one reply.
package leafgate

import (
	"context"
	"math/big"
	"time"

	"github.com/leafprotocol/leafgate/chain"
	"github.com/leafprotocol/leafgate/completion"
	"github.com/leafprotocol/leafgate/entity"
	"github.com/leafprotocol/leafgate/events"
	"github.com/leafprotocol/leafgate/logger"
	"github.com/leafprotocol/leafgate/metrics"
	"github.com/leafprotocol/leafgate/replay"
	"github.com/leafprotocol/leafgate/types"
	"github.com/leafprotocol/leafgate/utils"
	"github.com/leafprotocol/leafgate/verification"
)

// Gateway sequences one gated chat request: input validation, payment
// verification, leaf lookup, the active check, delegation to the completion
// service, and response assembly. It keeps no state across requests and is
// safe for concurrent use.
type Gateway struct {
	reader    chain.Reader
	verifier  *verification.Verifier
	accessor  *entity.Accessor
	generator completion.Generator
	prompts   completion.PromptBuilder

	guard               replay.Guard
	log                 logger.Logger
	metrics             metrics.Recorder
	enforceCurrentPrice bool
}

// New wires a Gateway around a ledger reader and a reply generator.
// gatewayAddr is the payment-rail contract every valid payment transaction
// must target.
func New(reader chain.Reader, generator completion.Generator, gatewayAddr string, opts ...Option) (*Gateway, error) {
	decoder, err := events.NewDecoder()
	if err != nil {
		return nil, err
	}

	g := &Gateway{
		reader:    reader,
		generator: generator,
		prompts:   completion.NewPromptBuilder(0, 0),
		log:       logger.NoopLogger{},
		metrics:   metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(g)
	}

	g.verifier = verification.New(reader, decoder, verification.Config{
		GatewayAddress: gatewayAddr,
		Guard:          g.guard,
		Logger:         g.log,
		Metrics:        g.metrics,
	})
	g.accessor = entity.NewAccessor(reader)

	return g, nil
}

// Chat runs the full verify-and-chat sequence. Failures carry a
// types.GateError whose kind distinguishes bad input, payment denial,
// missing leaf, ledger unavailability, and generation failure. A request
// that verified successfully is never retroactively denied because
// generation failed; that surfaces as an internal error.
func (g *Gateway) Chat(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error) {
	if req == nil {
		return nil, types.NewInputError(types.ReasonMissingFields, "request body is required")
	}
	if err := utils.Validate(req); err != nil {
		return nil, types.NewInputError(types.ReasonMissingFields,
			"leafId, message, txHash and userAddress are required")
	}

	claim := &types.PaymentClaim{
		TxHash: req.TxHash,
		LeafID: req.LeafID,
		Payer:  req.UserAddress,
	}

	decision, err := g.verifier.Verify(ctx, claim)
	if err != nil {
		return nil, err
	}
	if !decision.Authorized {
		return nil, types.NewDenied(decision.Reason,
			"payment verification failed, please pay for the message first")
	}

	leaf, err := g.accessor.Load(ctx, req.LeafID)
	if err != nil {
		return nil, err
	}

	if !leaf.IsActive {
		g.metrics.IncCounter("chat_inactive", nil)
		return nil, types.NewDenied(types.ReasonLeafInactive,
			"this leaf is currently hibernating")
	}

	if g.enforceCurrentPrice && belowCurrentPrice(decision.Event, leaf.PricePerMessage) {
		return nil, types.NewDenied(types.ReasonInsufficientAmount,
			"recorded payment is below the current price per message")
	}

	prompt := g.prompts.Build(leaf.PersonalityNote, req.ConversationHistory, req.Message)

	start := time.Now()
	reply, err := g.generator.Generate(ctx, prompt)
	g.metrics.ObserveLatency("completion", time.Since(start), nil)
	if err != nil {
		g.log.Error("completion service failed", map[string]any{
			"leafId": req.LeafID,
			"error":  err.Error(),
		})
		return nil, types.NewInternal("failed to generate a reply", err)
	}

	g.metrics.IncCounter("chat_responded", nil)

	return &types.ChatResponse{
		LeafID:    req.LeafID,
		LeafName:  leaf.Name,
		Message:   reply,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// LeafCount returns the number of leaves ever minted.
func (g *Gateway) LeafCount(ctx context.Context) (uint64, error) {
	return g.reader.TotalLeaves(ctx)
}

// LeafInfo returns the current public view of a leaf.
func (g *Gateway) LeafInfo(ctx context.Context, leafID uint64) (*types.LeafView, error) {
	if leafID == 0 {
		return nil, types.NewInputError(types.ReasonMissingFields, "leafId must be a positive integer")
	}
	return g.accessor.LoadView(ctx, leafID)
}

func belowCurrentPrice(ev *types.PaymentEvent, price *big.Int) bool {
	if ev == nil || ev.TotalAmount == nil || price == nil {
		return false
	}
	return ev.TotalAmount.Cmp(price) < 0
}
