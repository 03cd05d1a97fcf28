// Package feed publishes fill events to an external stream. The matching
// core only returns reports; everything that consumes them lives here.
package feed

import (
	"context"

	"github.com/SaponinRacer/Market-Making/pkg/market/model"
)

const (
	DefaultTopic   = "fills.events"
	DefaultStream  = "FILLS"
	DefaultSubject = "FILLS.events"
)

type Publisher interface {
	Publish(ctx context.Context, ev *model.FillEvent) error
	Close() error
}
