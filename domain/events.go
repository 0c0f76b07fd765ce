package domain

import (
	"fmt"
	"time"
)

// Event kinds.
const (
	KindProductCreated      = "ProductCreated"
	KindProductPriceChanged = "ProductPriceChanged"
)

// DefaultAggregateVersion is stamped on every event. Versions are carried but
// not enforced.
const DefaultAggregateVersion int64 = 1

// Event is an immutable fact about a state change of an aggregate.
type Event struct {
	ID               EventID
	OccurredOn       time.Time
	AggregateVersion int64
	AggregateID      string
	Payload          EventPayload
}

// EventPayload is the closed set of event shapes. Switch on the concrete
// type to handle a specific kind.
type EventPayload interface {
	Kind() string
	Metadata() map[string]string
	eventPayload()
}

// ProductCreated is recorded when a product is built by NewProduct.
type ProductCreated struct {
	ProductName string
	Price       Money
}

func (ProductCreated) Kind() string { return KindProductCreated }

func (e ProductCreated) Metadata() map[string]string {
	return map[string]string{
		"productName":   e.ProductName,
		"priceAmount":   e.Price.Amount().String(),
		"priceCurrency": e.Price.Currency(),
	}
}

func (ProductCreated) eventPayload() {}

// ProductPriceChanged carries both sides of a price change.
type ProductPriceChanged struct {
	OldPrice Money
	NewPrice Money
}

func (ProductPriceChanged) Kind() string { return KindProductPriceChanged }

func (e ProductPriceChanged) Metadata() map[string]string {
	return map[string]string{
		"oldPriceAmount":   e.OldPrice.Amount().String(),
		"oldPriceCurrency": e.OldPrice.Currency(),
		"newPriceAmount":   e.NewPrice.Amount().String(),
		"newPriceCurrency": e.NewPrice.Currency(),
	}
}

func (ProductPriceChanged) eventPayload() {}

// Events is an ordered batch of events emitted by one operation.
type Events []Event

func newEvent(aggregateID string, occurredOn time.Time, payload EventPayload) Event {
	return Event{
		ID:               NewID[Event](),
		OccurredOn:       occurredOn,
		AggregateVersion: DefaultAggregateVersion,
		AggregateID:      aggregateID,
		Payload:          payload,
	}
}

// Kind is a shortcut for e.Payload.Kind().
func (e Event) Kind() string {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.Kind()
}

// EventEnvelope is the flat record written to event logs and brokers.
type EventEnvelope struct {
	EventID          string            `json:"eventId"`
	EventType        string            `json:"eventType"`
	AggregateID      string            `json:"aggregateId"`
	AggregateVersion int64             `json:"aggregateVersion"`
	OccurredOn       time.Time         `json:"occurredOn"`
	Metadata         map[string]string `json:"metadata"`
}

// Envelope flattens e for storage or transport.
func (e Event) Envelope() EventEnvelope {
	env := EventEnvelope{
		EventID:          e.ID.String(),
		EventType:        e.Kind(),
		AggregateID:      e.AggregateID,
		AggregateVersion: e.AggregateVersion,
		OccurredOn:       e.OccurredOn,
		Metadata:         map[string]string{},
	}
	if e.Payload != nil {
		env.Metadata = e.Payload.Metadata()
	}
	return env
}

// Event rebuilds the typed event from a stored envelope.
func (env EventEnvelope) Event() (Event, error) {
	id, err := ParseID[Event](env.EventID)
	if err != nil {
		return Event{}, err
	}
	var payload EventPayload
	switch env.EventType {
	case KindProductCreated:
		price, err := ParseMoney(env.Metadata["priceAmount"], env.Metadata["priceCurrency"])
		if err != nil {
			return Event{}, fmt.Errorf("decode %s %s: %w", env.EventType, env.EventID, err)
		}
		payload = ProductCreated{ProductName: env.Metadata["productName"], Price: price}
	case KindProductPriceChanged:
		oldPrice, err := ParseMoney(env.Metadata["oldPriceAmount"], env.Metadata["oldPriceCurrency"])
		if err != nil {
			return Event{}, fmt.Errorf("decode %s %s: %w", env.EventType, env.EventID, err)
		}
		newPrice, err := ParseMoney(env.Metadata["newPriceAmount"], env.Metadata["newPriceCurrency"])
		if err != nil {
			return Event{}, fmt.Errorf("decode %s %s: %w", env.EventType, env.EventID, err)
		}
		payload = ProductPriceChanged{OldPrice: oldPrice, NewPrice: newPrice}
	default:
		return Event{}, fmt.Errorf("unknown event type %q", env.EventType)
	}
	version := env.AggregateVersion
	if version == 0 {
		version = DefaultAggregateVersion
	}
	return Event{
		ID:               id,
		OccurredOn:       env.OccurredOn,
		AggregateVersion: version,
		AggregateID:      env.AggregateID,
		Payload:          payload,
	}, nil
}
