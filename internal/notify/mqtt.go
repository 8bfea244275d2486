package notify

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/model"
)

const connectTimeout = 10 * time.Second

// Publisher mirrors command events and light state onto an MQTT broker
// so other home-automation pieces can react without polling the bridge.
type Publisher struct {
	client mqtt.Client
	prefix string
}

func Connect(brokerURL, prefix, clientID string) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, errors.New("mqtt connect timed out")
	}
	if err := token.Error(); err != nil {
		return nil, err
	}

	return &Publisher{client: client, prefix: prefix}, nil
}

func (p *Publisher) PublishEvent(evt model.Event) {
	p.publish(p.prefix+"/event", evt, false)
}

// PublishLightState publishes retained so late subscribers see the last
// known state.
func (p *Publisher) PublishLightState(state model.LightState) {
	p.publish(p.prefix+"/light/state", state, true)
}

func (p *Publisher) publish(topic string, payload any, retained bool) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("mqtt: encode %s: %v", topic, err)
		return
	}
	token := p.client.Publish(topic, 0, retained, data)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			log.Printf("mqtt: publish %s: %v", topic, err)
		}
	}()
}

func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
