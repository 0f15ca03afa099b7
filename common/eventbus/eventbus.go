package eventbus

import (
	"github.com/asaskevich/EventBus"
)

type EventID string

type Event interface {
	EventID() EventID
}

type Handler func(e Event)

type Bus interface {
	Publish(e Event)
	Subscribe(id EventID, handler Handler) error
	SubscribeAsync(id EventID, handler Handler) error
	Unsubscribe(id EventID, handler Handler) error
	WaitAsync()
}

type bus struct {
	bus EventBus.Bus
}

func New() Bus {
	return &bus{bus: EventBus.New()}
}

func (b *bus) Publish(e Event) {
	b.bus.Publish(string(e.EventID()), e)
}

func (b *bus) Subscribe(id EventID, handler Handler) error {
	return b.bus.Subscribe(string(id), handler)
}

func (b *bus) SubscribeAsync(id EventID, handler Handler) error {
	return b.bus.SubscribeAsync(string(id), handler, false)
}

func (b *bus) Unsubscribe(id EventID, handler Handler) error {
	return b.bus.Unsubscribe(string(id), handler)
}

func (b *bus) WaitAsync() {
	b.bus.WaitAsync()
}
