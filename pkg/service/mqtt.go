// Copyright 2025 The GardenWorker Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqttapi "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/gardennet/GardenWorker/model"
	"github.com/gardennet/GardenWorker/pkg/events"
	"github.com/gardennet/GardenWorker/pkg/logging"
	"github.com/gardennet/GardenWorker/pkg/server"
)

const (
	mqttKeepAlive      = time.Second * 2
	mqttPingTimeout    = time.Second * 1
	mqttPublishTimeout = time.Millisecond * 200
)

// MQTTConfig holds the settings of the MQTT transport.
type MQTTConfig struct {
	// Address of the broker (host:port); empty disables MQTT
	BrokerAddress string
	// TopicPrefix of all topics used by this worker
	TopicPrefix string
	// ClientID used towards the broker
	ClientID string
}

// mqttTransport serves the JSON-RPC endpoint over an MQTT broker and
// mirrors pin state changes onto retained state topics.
type mqttTransport struct {
	log       zerolog.Logger
	config    MQTTConfig
	endpoint  *server.Endpoint
	bus       *events.Bus
	logWriter logging.MQTTWriter

	mutex  sync.Mutex
	client mqttapi.Client
}

func newMQTTTransport(log zerolog.Logger, config MQTTConfig, endpoint *server.Endpoint, bus *events.Bus, logWriter logging.MQTTWriter) *mqttTransport {
	return &mqttTransport{
		log:       log.With().Str("component", "mqtt").Logger(),
		config:    config,
		endpoint:  endpoint,
		bus:       bus,
		logWriter: logWriter,
	}
}

func (t *mqttTransport) logTopic() string {
	return t.config.TopicPrefix + "/log"
}

func (t *mqttTransport) requestTopic() string {
	return t.config.TopicPrefix + "/rpc/request"
}

func (t *mqttTransport) responseTopic() string {
	return t.config.TopicPrefix + "/rpc/response"
}

func (t *mqttTransport) pinStateTopic(pin model.Pin) string {
	return fmt.Sprintf("%s/pins/%d/state", t.config.TopicPrefix, pin)
}

// Run connects to the broker and serves requests until the given
// context is canceled.
func (t *mqttTransport) Run(ctx context.Context) error {
	// Prepare MQTT client options
	opts := mqttapi.NewClientOptions().
		AddBroker("tcp://" + t.config.BrokerAddress).
		SetClientID(t.config.ClientID)
	opts.SetKeepAlive(mqttKeepAlive)
	opts.SetPingTimeout(mqttPingTimeout)
	opts.SetOrderMatters(false)
	opts.SetDefaultPublishHandler(func(c mqttapi.Client, m mqttapi.Message) {
		// Ignore messages when no subscription match
	})

	// Connect client
	client := mqttapi.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return errors.Wrap(token.Error(), "failed to connect to mqtt")
	}
	t.mutex.Lock()
	t.client = client
	t.mutex.Unlock()

	if token := client.Subscribe(t.requestTopic(), 0, t.onRequest); token.Wait() && token.Error() != nil {
		return errors.Wrapf(token.Error(), "failed to subscribe to '%s'", t.requestTopic())
	}

	if t.bus != nil {
		cancelPinEvents := t.bus.RegisterPinEventReceiver(t.onPinEvent)
		defer cancelPinEvents()
	}
	if t.logWriter != nil {
		t.logWriter.SetDestination(t.logTopic(), client)
		t.logWriter.Enable(true)
		defer t.logWriter.Enable(false)
	}

	t.log.Info().
		Str("broker", t.config.BrokerAddress).
		Str("topic", t.requestTopic()).
		Msg("Serving MQTT")
	<-ctx.Done()

	t.mutex.Lock()
	t.client = nil
	t.mutex.Unlock()
	client.Disconnect(250)
	t.log.Debug().Msg("Done serving MQTT")
	return nil
}

// onRequest handles a single message on the request topic.
func (t *mqttTransport) onRequest(client mqttapi.Client, msg mqttapi.Message) {
	mqttRequestsTotal.Inc()
	resp := t.endpoint.Handle(context.Background(), msg.Payload())
	if resp == nil {
		return
	}
	token := client.Publish(t.responseTopic(), 0, false, resp)
	if !token.WaitTimeout(mqttPublishTimeout) {
		t.log.Error().Err(token.Error()).
			Str("topic", t.responseTopic()).
			Msg("failed to deliver MQTT response in time")
	}
}

type pinStateMessage struct {
	Direction string `json:"direction"`
	Value     int    `json:"value"`
}

// onPinEvent mirrors a pin state change onto its retained state topic.
func (t *mqttTransport) onPinEvent(event events.PinEvent) error {
	t.mutex.Lock()
	client := t.client
	t.mutex.Unlock()
	if client == nil {
		return nil
	}
	payload, err := json.Marshal(pinStateMessage{
		Direction: string(event.Direction),
		Value:     event.Value,
	})
	if err != nil {
		return maskAny(err)
	}
	topic := t.pinStateTopic(event.Pin)
	token := client.Publish(topic, 0, true, payload)
	if !token.WaitTimeout(mqttPublishTimeout) {
		t.log.Error().Err(token.Error()).
			Str("topic", topic).
			Msg("failed to deliver MQTT pin state in time")
	}
	mqttPinStatesTotal.Inc()
	return nil
}
