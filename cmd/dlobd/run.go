package main

import (
	"context"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/drift-labs/dlobd/config"
	"github.com/drift-labs/dlobd/dlob"
	"github.com/drift-labs/dlobd/dlob/types"
	"github.com/drift-labs/dlobd/ingest"
	"github.com/drift-labs/dlobd/marketfeed"
	"github.com/drift-labs/dlobd/oracles"
	"github.com/drift-labs/dlobd/utils"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the DLOB core and its Kafka order-event ingest loop",
	RunE:  runDlobd,
}

func runDlobd(cmd *cobra.Command, args []string) error {
	cfg := config.Initialize(config.FromEnv())

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	book := dlob.New(cfg.MarketIndexes)

	var vammQuote *big.Int
	if cfg.VammQuote != "" {
		vammQuote, err = oracles.FromDecimal(cfg.VammQuote)
		if err != nil {
			return err
		}
		logger.Info("vAMM quote configured", zap.String("price", oracles.ToDecimal(vammQuote).String()))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.MarketfeedEndpoint != "" {
		conn := marketfeed.NewConnection()
		feedCfg := marketfeed.ConnectionConfig{
			Endpoint: cfg.MarketfeedEndpoint,
			Token:    cfg.MarketfeedToken,
			Insecure: cfg.MarketfeedInsecure,
		}
		if err := conn.Connect(feedCfg); err != nil {
			logger.Warn("marketfeed connect failed, continuing without it", zap.Error(err))
		} else {
			defer conn.Close()
			logger.Info("marketfeed connected", zap.String("endpoint", cfg.MarketfeedEndpoint))
		}
	}

	consumer, err := ingest.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaGroupId, cfg.KafkaTopic, book, logger)
	if err != nil {
		return err
	}
	defer consumer.Close()

	go func() {
		if err := consumer.Run(ctx); err != nil {
			logger.Error("kafka consumer stopped", zap.Error(err))
		}
	}()

	go matchLoop(ctx, book, cfg.MarketIndexes, vammQuote, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutting down")
	return nil
}

// matchLoop periodically sweeps every tracked market for fills and
// trigger-eligible orders, the poll-driven analogue of the caller loop
// spec.md §6 assumes sits above the pure DLOB core. vammQuote stands
// in symmetrically for vBid/vAsk until a real marketfeed decoder
// supplies independent legs per side.
func matchLoop(ctx context.Context, book *dlob.DLOB, marketIndexes []uint16, vammQuote *big.Int, logger *zap.Logger) {
	ticker := time.NewTicker(400 * time.Millisecond)
	defer ticker.Stop()

	var slot uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			slot++
			for _, marketIndex := range marketIndexes {
				// A real deployment feeds Price from the decoded
				// marketfeed stream; this loop has no decoder for it
				// (spec.md §1), so floating-limit and trigger orders
				// are simply skipped until a caller wires one in.
				oraclePriceData := &oracles.OraclePriceData{Slot: slot}

				fills, err := book.FindNodesToFill(marketIndex, vammQuote, vammQuote, slot, oraclePriceData)
				if err != nil {
					logger.Warn("find nodes to fill failed", zap.Uint16("market", marketIndex), zap.Error(err))
					continue
				}
				utils.ForEach(fills, func(fill *types.NodeToFill, idx int) {
					// Settlement is out of scope for this core; a caller
					// hooks in here to submit the matched fill on-chain.
					logger.Debug("fill found",
						zap.Uint16("market", marketIndex),
						zap.Uint32("takerOrder", fill.Node.GetOrder().OrderId),
					)
				})

				if oraclePriceData.Price != nil {
					book.FindNodesToTrigger(marketIndex, slot, oraclePriceData.Price)
				}
			}
		}
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		parsed, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = parsed
	}
	return cfg.Build()
}
