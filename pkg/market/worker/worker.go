package worker

import (
	"context"
	"encoding/json"
	"log"

	"github.com/SaponinRacer/Market-Making/pkg/feed"
	"github.com/SaponinRacer/Market-Making/pkg/market/model"
	"github.com/SaponinRacer/Market-Making/pkg/market/repo"
	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
)

// Worker drains the fill-event feed into the database.
type Worker struct {
	fillEvent repo.IFillEvent
}

func NewWorker(repo repo.IRepo) *Worker {
	return &Worker{
		fillEvent: repo.FillEvent(),
	}
}

// StartKafka consumes fill-event batches from a Kafka consumer group.
func (w *Worker) StartKafka(ctx context.Context, cg *feed.ConsumerGroup) error {
	return cg.Run(ctx, func(ctx context.Context, events []*model.FillEvent) error {
		_, err := w.fillEvent.BulkCreate(ctx, events)
		return err
	})
}

// StartJetStream consumes fill events from a durable JetStream pull consumer.
func (w *Worker) StartJetStream(ctx context.Context, js nats.JetStreamContext, subject, durable string) error {
	cons, err := js.PullSubscribe(subject, durable)
	if err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msgs, err := cons.Fetch(10)
		if err != nil {
			if err != nats.ErrTimeout {
				log.Println("fetch error:", err)
			}
			continue
		}

		for _, msg := range msgs {
			var ev model.FillEvent
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				log.Println("unmarshal err", err)
				_ = msg.Ack()
				continue
			}
			if _, err := w.fillEvent.Create(ctx, &ev); err != nil {
				log.Println("persist err", err)
				continue
			}
			_ = msg.Ack()
		}
	}
}
