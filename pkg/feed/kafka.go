package feed

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/SaponinRacer/Market-Making/pkg/market/model"
	kafka "github.com/segmentio/kafka-go"
)

type KafkaProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchBytes   int64
	BatchTimeout time.Duration
}

// KafkaPublisher writes fill events to a Kafka topic, keyed by pair so one
// pair's events stay on one partition.
type KafkaPublisher struct {
	w     *kafka.Writer
	topic string
}

func NewKafkaPublisher(cfg KafkaProducerConfig) *KafkaPublisher {
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchBytes == 0 {
		cfg.BatchBytes = 1 << 20
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}
	wr := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchBytes:             cfg.BatchBytes,
		BatchTimeout:           cfg.BatchTimeout,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireNone,
		Async:                  true,
	}
	return &KafkaPublisher{w: wr, topic: cfg.Topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev *model.FillEvent) error {
	if p == nil || p.w == nil {
		return errors.New("publisher not initialized")
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(ev.Pair),
		Value: b,
		Time:  time.Now(),
	})
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}

type ConsumerConfig struct {
	Brokers     []string
	GroupID     string
	Topic       string
	WorkerCount int
	MaxRetries  int
	BackoffMin  time.Duration
	BackoffMax  time.Duration
	DLQTopic    string
	// Batch options
	BatchSize    int
	BatchTimeout time.Duration
}

// ConsumerGroup fetches fill events in batches and hands them to a handler.
// Handler failures retry with exponential backoff; batches that exhaust
// their retries go to the DLQ topic when one is configured.
type ConsumerGroup struct {
	r          *kafka.Reader
	cfg        ConsumerConfig
	prodForDLQ *KafkaPublisher
}

func NewConsumerGroup(cfg ConsumerConfig) (*ConsumerGroup, error) {
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BackoffMin == 0 {
		cfg.BackoffMin = 100 * time.Millisecond
	}
	if cfg.BackoffMax == 0 {
		cfg.BackoffMax = 10 * time.Second
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 50
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 200 * time.Millisecond
	}

	rd := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		StartOffset: kafka.FirstOffset,
		MaxWait:     500 * time.Millisecond,
		MinBytes:    1,
		MaxBytes:    10 << 20,
	})

	var prod *KafkaPublisher
	if cfg.DLQTopic != "" {
		prod = NewKafkaPublisher(KafkaProducerConfig{Brokers: cfg.Brokers, Topic: cfg.DLQTopic})
	}

	return &ConsumerGroup{r: rd, cfg: cfg, prodForDLQ: prod}, nil
}

func (cg *ConsumerGroup) Close() error {
	if cg == nil {
		return nil
	}
	if cg.prodForDLQ != nil {
		_ = cg.prodForDLQ.Close()
	}
	if cg.r != nil {
		return cg.r.Close()
	}
	return nil
}

// Run delivers decoded fill-event batches to handler until ctx is done.
func (cg *ConsumerGroup) Run(ctx context.Context, handler func(context.Context, []*model.FillEvent) error) error {
	if cg == nil || cg.r == nil {
		return errors.New("consumer not initialized")
	}

	batches := make(chan []kafka.Message, cg.cfg.WorkerCount)

	go func() {
		defer close(batches)
		var buf []kafka.Message
		deadline := time.Now().Add(cg.cfg.BatchTimeout)
		for {
			fetchCtx, cancel := context.WithDeadline(ctx, deadline)
			m, err := cg.r.FetchMessage(fetchCtx)
			cancel()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				// deadline hit: flush whatever we buffered
				if len(buf) > 0 {
					select {
					case batches <- buf:
						buf = nil
					case <-ctx.Done():
						return
					}
				}
				deadline = time.Now().Add(cg.cfg.BatchTimeout)
				continue
			}
			buf = append(buf, m)
			if len(buf) >= cg.cfg.BatchSize {
				select {
				case batches <- buf:
					buf = nil
					deadline = time.Now().Add(cg.cfg.BatchTimeout)
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	done := make(chan struct{})
	for i := 0; i < cg.cfg.WorkerCount; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for ms := range batches {
				cg.handleBatch(ctx, ms, handler)
			}
		}()
	}

	var workerExited int
	for {
		select {
		case <-done:
			workerExited++
			if workerExited == cg.cfg.WorkerCount {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (cg *ConsumerGroup) handleBatch(ctx context.Context, ms []kafka.Message, handler func(context.Context, []*model.FillEvent) error) {
	events := make([]*model.FillEvent, 0, len(ms))
	for _, m := range ms {
		var ev model.FillEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			continue // malformed payloads are committed, never retried
		}
		events = append(events, &ev)
	}

	var attempt int
	for len(events) > 0 {
		err := handler(ctx, events)
		if err == nil {
			break
		}
		attempt++
		if attempt > cg.cfg.MaxRetries {
			if cg.prodForDLQ != nil {
				for _, ev := range events {
					_ = cg.prodForDLQ.Publish(ctx, ev)
				}
			}
			break
		}
		select {
		case <-time.After(backoffDuration(cg.cfg.BackoffMin, cg.cfg.BackoffMax, attempt)):
		case <-ctx.Done():
			return
		}
	}

	_ = cg.r.CommitMessages(ctx, ms...)
}

func backoffDuration(min, max time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	pow := math.Pow(2, float64(attempt-1))
	d := time.Duration(float64(min) * pow)
	if d > max {
		d = max
	}
	if d > 0 {
		d = time.Duration(rand.Int63n(int64(d)))
	}
	return d
}
