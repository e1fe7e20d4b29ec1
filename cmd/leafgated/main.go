// Command leafgated runs the leafgate HTTP server: a proof-of-payment
// gateway in front of a metered AI-chat service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/leafprotocol/leafgate"
	"github.com/leafprotocol/leafgate/chain"
	"github.com/leafprotocol/leafgate/completion"
	"github.com/leafprotocol/leafgate/config"
	"github.com/leafprotocol/leafgate/logger"
	"github.com/leafprotocol/leafgate/metrics"
	"github.com/leafprotocol/leafgate/replay"
	"github.com/leafprotocol/leafgate/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.NewZapLogger(cfg.LogLevel)
	recorder := metrics.NewPrometheusRecorder()

	reader, err := chain.NewEVMReader(cfg.RPCURL, cfg.LeafNFTAddress, cfg.LedgerTimeout)
	if err != nil {
		return err
	}
	defer reader.Close()

	generator := completion.NewOpenAIClient(completion.OpenAIConfig{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.CompletionTimeout,
	})

	var guard replay.Guard
	if cfg.RedisAddr != "" {
		guard = replay.NewRedisGuard(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), cfg.ReplayTTL)
	} else {
		guard = replay.NewMemoryGuard()
	}

	opts := []leafgate.Option{
		leafgate.WithLogger(log),
		leafgate.WithMetrics(recorder),
		leafgate.WithReplayGuard(guard),
		leafgate.WithPromptLimits(cfg.MaxHistoryMessages, cfg.MaxHistoryMessageLen),
	}
	if cfg.EnforceCurrentPrice {
		opts = append(opts, leafgate.WithCurrentPriceEnforcement())
	}

	gateway, err := leafgate.New(reader, generator, cfg.PaymentGatewayAddress, opts...)
	if err != nil {
		return err
	}

	log.Info("starting leafgate", map[string]any{
		"environment":     cfg.Environment,
		"rpc":             cfg.RPCURL,
		"leaf_nft":        cfg.LeafNFTAddress,
		"payment_gateway": cfg.PaymentGatewayAddress,
		"replay_guard":    guardName(cfg.RedisAddr),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(gateway, log).Run(ctx, cfg.ListenAddr)
}

func guardName(redisAddr string) string {
	if redisAddr != "" {
		return "redis"
	}
	return "memory"
}
