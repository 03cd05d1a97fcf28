package feed

import (
	"context"
	"encoding/json"

	"github.com/SaponinRacer/Market-Making/pkg/market/model"
	"github.com/nats-io/nats.go"
)

type JetStreamConfig struct {
	URL     string
	Stream  string
	Subject string
}

// JetStreamPublisher writes fill events to a NATS JetStream stream.
type JetStreamPublisher struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	subject string
}

func NewJetStreamPublisher(cfg JetStreamConfig) (*JetStreamPublisher, error) {
	if cfg.URL == "" {
		cfg.URL = nats.DefaultURL
	}
	if cfg.Stream == "" {
		cfg.Stream = DefaultStream
	}
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}

	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, err
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, err
	}

	_, _ = js.AddStream(&nats.StreamConfig{
		Name:     cfg.Stream,
		Subjects: []string{cfg.Stream + ".*"},
	})

	return &JetStreamPublisher{nc: nc, js: js, subject: cfg.Subject}, nil
}

func (p *JetStreamPublisher) Publish(_ context.Context, ev *model.FillEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(p.subject, b)
	return err
}

func (p *JetStreamPublisher) Close() error {
	if p == nil || p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}
