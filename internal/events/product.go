// Package events defines the product events published after successful writes.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/productos/pkg/messaging"
)

const (
	SubjectProductCreated = "products.created"
	SubjectProductUpdated = "products.updated"
	SubjectProductDeleted = "products.deleted"
)

var (
	_ messaging.Event = ProductCreatedEvent{}
	_ messaging.Event = ProductUpdatedEvent{}
	_ messaging.Event = ProductDeletedEvent{}
)

type ProductCreatedEvent struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Stock      int32     `json:"stock"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e ProductCreatedEvent) Subject() string { return SubjectProductCreated }

func (e ProductCreatedEvent) Payload() ([]byte, error) { return json.Marshal(e) }

type ProductUpdatedEvent struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Stock      int32     `json:"stock"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e ProductUpdatedEvent) Subject() string { return SubjectProductUpdated }

func (e ProductUpdatedEvent) Payload() ([]byte, error) { return json.Marshal(e) }

type ProductDeletedEvent struct {
	ID         int64     `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e ProductDeletedEvent) Subject() string { return SubjectProductDeleted }

func (e ProductDeletedEvent) Payload() ([]byte, error) { return json.Marshal(e) }
