// Package verification answers the gateway's core question: does this
// transaction reference prove that this payer paid for this leaf? The
// verifier reads the ledger through the chain.Reader, decodes the payment
// event, and returns a typed yes/no decision. Denials are decisions, not
// errors; only transport problems surface as errors, so callers can always
// tell "your payment did not check out" from "the ledger was unreachable".
package verification

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/leafprotocol/leafgate/chain"
	"github.com/leafprotocol/leafgate/events"
	"github.com/leafprotocol/leafgate/logger"
	"github.com/leafprotocol/leafgate/metrics"
	"github.com/leafprotocol/leafgate/replay"
	"github.com/leafprotocol/leafgate/types"
)

// Decision is the verifier's output for one payment claim. Reason is set
// only when Authorized is false; Event carries the decoded payment event on
// success so callers can inspect the recorded amounts.
type Decision struct {
	Authorized bool
	Reason     string
	Event      *types.PaymentEvent
}

// Config carries the verifier's collaborators. Guard is optional; without
// it a reference may authorize any number of requests, matching the
// replay-permissive behavior of the original payment rail.
type Config struct {
	GatewayAddress string
	Guard          replay.Guard
	Logger         logger.Logger
	Metrics        metrics.Recorder
}

// Verifier checks payment claims against ledger state. It holds no
// per-request state and is safe for concurrent use.
type Verifier struct {
	reader      chain.Reader
	decoder     *events.Decoder
	guard       replay.Guard
	gatewayAddr string
	log         logger.Logger
	metrics     metrics.Recorder
}

func New(reader chain.Reader, decoder *events.Decoder, cfg Config) *Verifier {
	v := &Verifier{
		reader:      reader,
		decoder:     decoder,
		guard:       cfg.Guard,
		gatewayAddr: cfg.GatewayAddress,
		log:         cfg.Logger,
		metrics:     cfg.Metrics,
	}
	if v.log == nil {
		v.log = logger.NoopLogger{}
	}
	if v.metrics == nil {
		v.metrics = metrics.NoopRecorder{}
	}
	return v
}

// Verify resolves the claim against the ledger. The returned error is
// non-nil only for transport failures (transient kind); every
// payment-related failure comes back as an unauthorized Decision.
func (v *Verifier) Verify(ctx context.Context, claim *types.PaymentClaim) (*Decision, error) {
	start := time.Now()
	defer func() {
		v.metrics.ObserveLatency("verify", time.Since(start), nil)
	}()

	outcome, err := v.reader.TransactionOutcome(ctx, claim.TxHash)
	if err != nil {
		if types.KindOf(err) == types.KindNotFound {
			return v.deny(claim, types.ReasonTransactionUnresolvable), nil
		}
		return nil, err
	}

	if !outcome.Succeeded() {
		return v.deny(claim, types.ReasonTransactionFailed), nil
	}

	if !strings.EqualFold(outcome.To, v.gatewayAddr) {
		return v.deny(claim, types.ReasonWrongContract), nil
	}

	ev, ok := v.decoder.FindPaymentEvent(outcome, v.gatewayAddr)
	if !ok {
		return v.deny(claim, types.ReasonNoPaymentEvent), nil
	}

	if ev.LeafID == nil || ev.LeafID.Cmp(new(big.Int).SetUint64(claim.LeafID)) != 0 {
		return v.deny(claim, types.ReasonEntityMismatch), nil
	}

	if !strings.EqualFold(ev.Payer, claim.Payer) {
		return v.deny(claim, types.ReasonPayerMismatch), nil
	}

	if v.guard != nil {
		fresh, err := v.guard.Consume(ctx, claim.TxHash, claim.LeafID, claim.Payer)
		if err != nil {
			// A broken guard must never silently authorize.
			return nil, types.NewTransient("replay guard unavailable", err)
		}
		if !fresh {
			return v.deny(claim, types.ReasonReferenceReplayed), nil
		}
	}

	v.metrics.IncCounter("verify_authorized", nil)
	v.log.Debug("payment claim authorized", map[string]any{
		"tx":     claim.TxHash,
		"leafId": claim.LeafID,
		"payer":  claim.Payer,
	})

	return &Decision{Authorized: true, Event: ev}, nil
}

func (v *Verifier) deny(claim *types.PaymentClaim, reason string) *Decision {
	v.metrics.IncCounter("verify_denied", map[string]string{"reason": reason})
	v.log.Info("payment claim denied", map[string]any{
		"tx":     claim.TxHash,
		"leafId": claim.LeafID,
		"payer":  claim.Payer,
		"reason": reason,
	})
	return &Decision{Authorized: false, Reason: reason}
}
