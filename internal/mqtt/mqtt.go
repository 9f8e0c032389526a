package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/athan/internal/model"
)

const publishTimeout = 5 * time.Second

// MQTT connection handler
var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

// MQTT connection lost handler
var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Error().Err(err).Msg("MQTT connection lost")
}

// CreateMQTTClient connects to brokerURL and reconnects on its own afterwards.
func CreateMQTTClient(brokerURL, clientName string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientName)
	opts.SetAutoReconnect(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %v", token.Error())
	}

	log.Info().Str("broker", brokerURL).Msg("MQTT client initialized successfully")
	return client, nil
}

// Topic is where screens of a city listen for next-prayer updates.
func Topic(city string) string {
	return fmt.Sprintf("athan/%s/next", strings.ToLower(strings.ReplaceAll(city, " ", "-")))
}

// Broadcaster pushes snapshots to every screen subscribed to the city topic.
// Messages are retained so a screen turned on later gets the current state.
type Broadcaster struct {
	client mqtt.Client
	topic  string
}

func NewBroadcaster(client mqtt.Client, city string) *Broadcaster {
	return &Broadcaster{client: client, topic: Topic(city)}
}

func (b *Broadcaster) Publish(snap model.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	token := b.client.Publish(b.topic, 1, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", b.topic)
	}
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to %s: %v", b.topic, token.Error())
	}

	log.Debug().Str("topic", b.topic).Str("next", string(snap.Next.Name)).Msg("snapshot published")
	return nil
}

func (b *Broadcaster) Close() {
	b.client.Disconnect(250)
	log.Info().Msg("MQTT client disconnected")
}
