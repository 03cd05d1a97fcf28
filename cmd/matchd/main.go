package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/SaponinRacer/Market-Making/config"
	"github.com/SaponinRacer/Market-Making/pkg/feed"
	redis_wrapper "github.com/SaponinRacer/Market-Making/pkg/infra/redis"
	"github.com/SaponinRacer/Market-Making/pkg/lastprice"
	"github.com/SaponinRacer/Market-Making/pkg/logging"
	"github.com/SaponinRacer/Market-Making/pkg/market"
	"github.com/SaponinRacer/Market-Making/pkg/market/eventstore"
	"github.com/SaponinRacer/Market-Making/pkg/market/model"
	"github.com/SaponinRacer/Market-Making/pkg/matching"
)

func main() {
	go func() {
		http.ListenAndServe("localhost:6060", nil)
	}()

	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	configBytes, err := json.MarshalIndent(cfg, "", "   ")
	if err != nil {
		zap.S().Warnf("could not convert config to JSON: %v", err)
	} else {
		zap.S().Debugf("load config %s", string(configBytes))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	logger := logging.NewLogger(logging.INFO)
	defer logger.Sync()

	feeRate, err := decimal.NewFromString(cfg.Market.FeeRate)
	if err != nil {
		panic(fmt.Sprintf("invalid fee_rate %q: %v", cfg.Market.FeeRate, err))
	}

	var rules []market.Rule
	if cfg.Market.TickRuleFile != "" {
		tickRule, err := market.NewTickSizeRuleFromFile(cfg.Market.TickRuleFile)
		if err != nil {
			panic(err)
		}
		rules = append(rules, tickRule)
	}

	manager := market.NewManager(&market.ManagerConfig{
		FeeRate: feeRate,
		Rules:   rules,
	})

	publisher := newPublisher(cfg.Feed)
	defer publisher.Close()

	store := eventstore.NewInMemoryEventStore()

	var prices *lastprice.Cache
	if cfg.Redis != nil {
		rdb, err := redis_wrapper.InitRedis(cfg.Redis)
		if err != nil {
			logger.Warn(ctx, "redis unavailable, last-price cache disabled", zap.Error(err))
		} else {
			prices = lastprice.New(rdb, 24*time.Hour)
			for _, pair := range cfg.Market.Pairs {
				price, ok, err := prices.Get(ctx, pair)
				if err != nil || !ok {
					continue
				}
				logger.Info(ctx, "resuming with cached last price",
					zap.String("pair", pair), zap.String("price", price.String()))
			}
		}
	}

	manager.RegisterFillCallback(func(ev *model.FillEvent) {
		store.AddEvent(ev)
		if err := publisher.Publish(ctx, ev); err != nil {
			logger.Warn(ctx, "publish fill event", zap.Error(err))
		}
		filled := ev.Status == string(matching.StatusFullyFilled) ||
			ev.Status == string(matching.StatusPartiallyFilled)
		if prices != nil && filled {
			if err := prices.Set(ctx, ev.Pair, ev.Price); err != nil {
				logger.Warn(ctx, "cache last price", zap.Error(err))
			}
		}
	})

	manager.Start(ctx)
	logger.Info(ctx, "matchd started", zap.String("service", cfg.ServiceName))
	fmt.Println("matchd started. Press Ctrl+C to exit.")

	<-sigs
	fmt.Println("Shutting down...")

	manager.Stop()
	cancel()

	fmt.Println("Exited cleanly.")
}

func newPublisher(cfg *config.FeedConfig) feed.Publisher {
	if cfg == nil {
		cfg = &config.FeedConfig{Transport: "kafka"}
	}
	switch cfg.Transport {
	case "jetstream":
		pub, err := feed.NewJetStreamPublisher(feed.JetStreamConfig{
			URL:     cfg.NatsURL,
			Stream:  cfg.Stream,
			Subject: cfg.Subject,
		})
		if err != nil {
			panic(err)
		}
		return pub
	default:
		return feed.NewKafkaPublisher(feed.KafkaProducerConfig{
			Brokers: cfg.Brokers,
			Topic:   cfg.Topic,
		})
	}
}
