package config

import (
	"os"

	postgres_wrapper "github.com/SaponinRacer/Market-Making/pkg/infra/postgres"
	redis_wrapper "github.com/SaponinRacer/Market-Making/pkg/infra/redis"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type FeedConfig struct {
	Transport string   `yaml:"transport"` // "kafka" or "jetstream"
	Brokers   []string `yaml:"brokers"`
	Topic     string   `yaml:"topic"`
	GroupID   string   `yaml:"group_id"`
	DLQTopic  string   `yaml:"dlq_topic"`
	NatsURL   string   `yaml:"nats_url"`
	Stream    string   `yaml:"stream"`
	Subject   string   `yaml:"subject"`
	Durable   string   `yaml:"durable"`
}

type MarketConfig struct {
	// FeeRate is a decimal string in [0.0, 0.03], e.g. "0.01".
	FeeRate      string   `yaml:"fee_rate"`
	Pairs        []string `yaml:"pairs"`
	TickRuleFile string   `yaml:"tick_rule_file"`
}

type AppConfig struct {
	ServiceName string                           `yaml:"service_name"`
	Market      *MarketConfig                    `yaml:"market"`
	Feed        *FeedConfig                      `yaml:"feed"`
	FillDB      *postgres_wrapper.PostgresConfig `yaml:"fill_db"`
	Redis       *redis_wrapper.RedisConfig       `yaml:"redis"`
}

// Load load config from file and environment variables.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	fields := []interface{}{
		"func",
		"config.readFromFile",
		"filePath",
		filePath,
	}

	sugar := zap.S().With(fields...)

	sugar.Debug("Load config...")
	zap.S().Debugf("CONFIG_FILE=%v", filePath)

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}

	err = yaml.Unmarshal(configBytes, cfg)
	if err != nil {
		sugar.Error("Failed to parse config file")
		return nil, err
	}

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}
