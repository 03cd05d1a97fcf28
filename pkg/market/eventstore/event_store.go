package eventstore

import "github.com/SaponinRacer/Market-Making/pkg/market/model"

type EventStore interface {
	AddEvent(ev *model.FillEvent)
	ByPair(pair string) []*model.FillEvent
	Latest(pair string) *model.FillEvent
}
