package server

import (
	"testing"
	"time"

	"dashboard-builder/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func pushMessage(types ...models.WidgetType) *models.MPushMessage {
	responses := make(map[models.WidgetType]*models.MWidgetDataResponse)
	for _, t := range types {
		responses[t] = &models.MWidgetDataResponse{Type: t, Timestamp: time.Now().UnixMilli()}
	}
	return &models.MPushMessage{Type: "UPDATE", Responses: responses, Timestamp: time.Now().UnixMilli()}
}

// -----------------------------------------------------------------------------

func TestFilterForClientSubscriptionNarrowing(t *testing.T) {
	client := &Client{subscribed: make(map[models.WidgetType]struct{})}
	client.setSubscription([]string{"bar", "line"})

	message := pushMessage(models.WidgetTypeBar, models.WidgetTypeScatter)

	filtered := filterForClient(message, client)
	require.NotNil(t, filtered)
	assert.Len(t, filtered.Responses, 1)
	assert.Contains(t, filtered.Responses, models.WidgetTypeBar)
	assert.NotContains(t, filtered.Responses, models.WidgetTypeScatter)
}

// -----------------------------------------------------------------------------

func TestFilterForClientNoOverlap(t *testing.T) {
	client := &Client{subscribed: make(map[models.WidgetType]struct{})}
	client.setSubscription([]string{"treemap"})

	message := pushMessage(models.WidgetTypeBar, models.WidgetTypeLine)

	assert.Nil(t, filterForClient(message, client), "no overlap means no message at all")
}

// -----------------------------------------------------------------------------

func TestFilterForClientEmptySubscriptionMeansAll(t *testing.T) {
	client := &Client{subscribed: make(map[models.WidgetType]struct{})}

	message := pushMessage(models.WidgetTypeBar, models.WidgetTypeLine)

	filtered := filterForClient(message, client)
	require.NotNil(t, filtered)
	assert.Len(t, filtered.Responses, 2)
}

// -----------------------------------------------------------------------------

func TestSetSubscriptionDropsUnknownTypes(t *testing.T) {
	client := &Client{subscribed: make(map[models.WidgetType]struct{})}
	client.setSubscription([]string{"bar", "gauge"})

	assert.True(t, client.isSubscribed(models.WidgetTypeBar))
	assert.False(t, client.isSubscribed("gauge"))
	assert.False(t, client.subscribedToAll())
}

// -----------------------------------------------------------------------------

func TestInitialResponseReplaysHistory(t *testing.T) {
	srv := newTestServer()

	resp, genErr := srv.Orchestrator.GenerateOne(models.WidgetTypeBar)
	require.Nil(t, genErr)
	srv.recordResponse(resp)

	client := &Client{subscribed: make(map[models.WidgetType]struct{})}
	client.setSubscription([]string{"bar", "line"})

	initial := srv.initialResponse(client)
	assert.Equal(t, "INITIAL", initial.Type)
	require.Contains(t, initial.Responses, models.WidgetTypeBar)
	assert.Equal(t, resp, initial.Responses[models.WidgetTypeBar])
	// Line has no history yet, so nothing to replay
	assert.NotContains(t, initial.Responses, models.WidgetTypeLine)
}
