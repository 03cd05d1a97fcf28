package main

import (
	"context"
	"encoding/json"
	"flag"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/SaponinRacer/Market-Making/config"
	"github.com/SaponinRacer/Market-Making/pkg/feed"
	postgres_wrapper "github.com/SaponinRacer/Market-Making/pkg/infra/postgres"
	"github.com/SaponinRacer/Market-Making/pkg/market/repo"
	"github.com/SaponinRacer/Market-Making/pkg/market/worker"
)

func main() {
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

	ctx := context.Background()

	// init db
	db, err := postgres_wrapper.InitPostgres(cfg.FillDB)
	if err != nil {
		zap.S().Errorf("init db fail with err: %v", err)
		panic(err)
	}

	// init repo
	sqlRepo := repo.NewRepo(db)

	w := worker.NewWorker(sqlRepo)

	switch cfg.Feed.Transport {
	case "jetstream":
		url := cfg.Feed.NatsURL
		if url == "" {
			url = nats.DefaultURL
		}
		nc, err := nats.Connect(url)
		if err != nil {
			panic(err)
		}
		js, err := nc.JetStream()
		if err != nil {
			panic(err)
		}

		_, _ = js.AddStream(&nats.StreamConfig{
			Name:     cfg.Feed.Stream,
			Subjects: []string{cfg.Feed.Stream + ".*"},
		})

		go w.StartJetStream(ctx, js, cfg.Feed.Subject, cfg.Feed.Durable)
	default:
		cg, err := feed.NewConsumerGroup(feed.ConsumerConfig{
			Brokers:  cfg.Feed.Brokers,
			GroupID:  cfg.Feed.GroupID,
			Topic:    cfg.Feed.Topic,
			DLQTopic: cfg.Feed.DLQTopic,
		})
		if err != nil {
			panic(err)
		}
		go w.StartKafka(ctx, cg)
	}

	select {}
}
