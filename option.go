package leafgate

import (
	"github.com/leafprotocol/leafgate/completion"
	"github.com/leafprotocol/leafgate/logger"
	"github.com/leafprotocol/leafgate/metrics"
	"github.com/leafprotocol/leafgate/replay"
)

type Option func(*Gateway)

func WithLogger(l logger.Logger) Option {
	return func(g *Gateway) {
		g.log = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(g *Gateway) {
		g.metrics = r
	}
}

// WithReplayGuard makes transaction references single-use per (leaf, payer)
// pair. Without a guard the same reference authorizes any number of chats.
func WithReplayGuard(guard replay.Guard) Option {
	return func(g *Gateway) {
		g.guard = guard
	}
}

// WithPromptLimits bounds the caller-supplied conversation history embedded
// into prompts: at most maxHistory messages, each capped to maxMessageLen
// bytes.
func WithPromptLimits(maxHistory, maxMessageLen int) Option {
	return func(g *Gateway) {
		g.prompts = completion.NewPromptBuilder(maxHistory, maxMessageLen)
	}
}

// WithCurrentPriceEnforcement denies chats whose recorded payment amount is
// below the leaf's price at chat time. Off by default: the payment rail
// already enforced the price when the payment was made.
func WithCurrentPriceEnforcement() Option {
	return func(g *Gateway) {
		g.enforceCurrentPrice = true
	}
}
