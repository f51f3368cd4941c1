// Package config assembles the process-wide settings dlobd needs to
// start: which markets to track, where to read order events from, and
// where to dial the account-update feed — mirrored off the teacher's
// config.Initialize override-merge shape, generalized from a single
// hardcoded devnet/mainnet pair to environment-driven fields.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/drift-labs/dlobd/utils"
)

type Config struct {
	MarketIndexes []uint16

	KafkaBrokers []string
	KafkaGroupId string
	KafkaTopic   string

	MarketfeedEndpoint string
	MarketfeedToken    string
	MarketfeedInsecure bool

	// VammQuote is the vAMM's current quote as a human-readable decimal
	// string (e.g. "31.42"), symmetric on both sides of the book until a
	// real marketfeed decoder supplies independent bid/ask legs. Parsed
	// through oracles.FromDecimal at startup, never carried as a raw
	// float through the matching core.
	VammQuote string

	LogLevel string
}

var defaultConfig = Config{
	MarketIndexes: []uint16{0},
	KafkaBrokers:  []string{"localhost:9092"},
	KafkaGroupId:  "dlobd",
	KafkaTopic:    "drift-order-events",
	LogLevel:      "info",
}

var CurrentConfig = defaultConfig

func GetConfig() *Config {
	return &CurrentConfig
}

// Initialize merges an overrideConfig onto the default, the way the
// teacher's Initialize merges a partial DriftConfig onto the env's
// base config: only non-zero fields on override take effect.
func Initialize(overrideConfig *Config) *Config {
	CurrentConfig = defaultConfig
	if overrideConfig != nil {
		if len(overrideConfig.MarketIndexes) > 0 {
			CurrentConfig.MarketIndexes = overrideConfig.MarketIndexes
		}
		if len(overrideConfig.KafkaBrokers) > 0 {
			CurrentConfig.KafkaBrokers = overrideConfig.KafkaBrokers
		}
		if overrideConfig.KafkaGroupId != "" {
			CurrentConfig.KafkaGroupId = overrideConfig.KafkaGroupId
		}
		if overrideConfig.KafkaTopic != "" {
			CurrentConfig.KafkaTopic = overrideConfig.KafkaTopic
		}
		if overrideConfig.MarketfeedEndpoint != "" {
			CurrentConfig.MarketfeedEndpoint = overrideConfig.MarketfeedEndpoint
		}
		if overrideConfig.MarketfeedToken != "" {
			CurrentConfig.MarketfeedToken = overrideConfig.MarketfeedToken
		}
		CurrentConfig.MarketfeedInsecure = overrideConfig.MarketfeedInsecure
		CurrentConfig.VammQuote = utils.TT(overrideConfig.VammQuote != "", overrideConfig.VammQuote, CurrentConfig.VammQuote)
		CurrentConfig.LogLevel = utils.TT(overrideConfig.LogLevel != "", overrideConfig.LogLevel, CurrentConfig.LogLevel)
	}
	return &CurrentConfig
}

// FromEnv builds an override Config from DLOBD_-prefixed environment
// variables, the entrypoint's default way of configuring a deployed
// process without a flags file.
func FromEnv() *Config {
	cfg := &Config{}

	if v := os.Getenv("DLOBD_MARKET_INDEXES"); v != "" {
		for _, part := range strings.Split(v, ",") {
			n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 16)
			if err == nil {
				cfg.MarketIndexes = append(cfg.MarketIndexes, uint16(n))
			}
		}
	}
	if v := os.Getenv("DLOBD_KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = strings.Split(v, ",")
	}
	cfg.KafkaGroupId = os.Getenv("DLOBD_KAFKA_GROUP_ID")
	cfg.KafkaTopic = os.Getenv("DLOBD_KAFKA_TOPIC")
	cfg.MarketfeedEndpoint = os.Getenv("DLOBD_MARKETFEED_ENDPOINT")
	cfg.MarketfeedToken = os.Getenv("DLOBD_MARKETFEED_TOKEN")
	cfg.MarketfeedInsecure = os.Getenv("DLOBD_MARKETFEED_INSECURE") == "true"
	cfg.VammQuote = os.Getenv("DLOBD_VAMM_QUOTE")
	cfg.LogLevel = os.Getenv("DLOBD_LOG_LEVEL")

	return cfg
}
