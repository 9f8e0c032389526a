package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/athan/internal/model"
)

type fakeToken struct {
	err      error
	finished bool
}

func (t *fakeToken) Wait() bool                     { return t.finished }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.finished }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type publishCall struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// only Publish is exercised by the broadcaster
type fakeClient struct {
	mqtt.Client
	token *fakeToken
	calls []publishCall
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.calls = append(c.calls, publishCall{topic, qos, retained, payload.([]byte)})
	return c.token
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "athan/paris/next", Topic("PARIS"))
	assert.Equal(t, "athan/la-mecque/next", Topic("La Mecque"))
}

func TestBroadcaster_PublishesRetainedSnapshot(t *testing.T) {
	client := &fakeClient{token: &fakeToken{finished: true}}
	b := NewBroadcaster(client, "PARIS")

	snap := model.Snapshot{
		City:     "PARIS",
		Date:     "2025-04-03",
		Next:     model.EventEntry{Hour: 13, Minute: 43, Name: model.Dohr},
		Index:    model.ColumnDohr,
		Selected: true,
	}
	require.NoError(t, b.Publish(snap))
	require.Len(t, client.calls, 1)

	call := client.calls[0]
	assert.Equal(t, "athan/paris/next", call.topic)
	assert.Equal(t, byte(1), call.qos)
	assert.True(t, call.retained)

	var got model.Snapshot
	require.NoError(t, json.Unmarshal(call.payload, &got))
	assert.Equal(t, snap, got)
}

func TestBroadcaster_PublishErrors(t *testing.T) {
	client := &fakeClient{token: &fakeToken{finished: false}}
	assert.Error(t, NewBroadcaster(client, "PARIS").Publish(model.Snapshot{}))

	client = &fakeClient{token: &fakeToken{finished: true, err: errors.New("not connected")}}
	assert.ErrorContains(t, NewBroadcaster(client, "PARIS").Publish(model.Snapshot{}), "not connected")
}
