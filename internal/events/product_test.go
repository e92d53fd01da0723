package events

import (
	"testing"
	"time"

	"github.com/abgdnv/productos/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductEvents(t *testing.T) {
	at := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	testCases := []struct {
		name            string
		event           messaging.Event
		expectedSubject string
		expectedPayload string
	}{
		{
			name:            "created",
			event:           ProductCreatedEvent{ID: 1, Name: "Alfajor", Price: 150.5, Stock: 10, OccurredAt: at},
			expectedSubject: "products.created",
			expectedPayload: `{"id":1,"name":"Alfajor","price":150.5,"stock":10,"occurred_at":"2025-07-01T12:00:00Z"}`,
		},
		{
			name:            "updated",
			event:           ProductUpdatedEvent{ID: 2, Name: "Mate", Price: 80, Stock: 0, OccurredAt: at},
			expectedSubject: "products.updated",
			expectedPayload: `{"id":2,"name":"Mate","price":80,"stock":0,"occurred_at":"2025-07-01T12:00:00Z"}`,
		},
		{
			name:            "deleted",
			event:           ProductDeletedEvent{ID: 3, OccurredAt: at},
			expectedSubject: "products.deleted",
			expectedPayload: `{"id":3,"occurred_at":"2025-07-01T12:00:00Z"}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			payload, err := tc.event.Payload()
			// then
			require.NoError(t, err)
			assert.Equal(t, tc.expectedSubject, tc.event.Subject())
			assert.JSONEq(t, tc.expectedPayload, string(payload))
		})
	}
}
