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

package logging

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	mqttapi "github.com/eclipse/paho.mqtt.golang"
)

// MQTTWriter is a log output that ships lines to an MQTT topic.
// Lines written before a destination is set are queued, the oldest
// lines are dropped when the queue fills up.
type MQTTWriter interface {
	io.Writer
	Enable(enable bool)
	SetDestination(topic string, client mqttapi.Client)
}

type mqttLogger struct {
	mutex  sync.Mutex
	queue  chan []byte
	topic  string
	client mqttapi.Client
	enable bool
}

const (
	mqttQueueSize   = 512
	mqttSendTimeout = time.Millisecond * 200
)

// NewMQTTWriter creates a new MQTT output for logs.
// The MQTT sender is stopped when the given context is canceled.
func NewMQTTWriter(ctx context.Context) MQTTWriter {
	l := &mqttLogger{
		queue: make(chan []byte, mqttQueueSize),
	}
	go l.run(ctx)
	return l
}

func (l *mqttLogger) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	// Copy the line, zerolog reuses its buffers.
	line := append([]byte(nil), p...)
	for attempt := 0; attempt < 10; attempt++ {
		select {
		case l.queue <- line:
			return len(p), nil
		default:
			// Queue full; Take 1 out and try again
			select {
			case <-l.queue:
				// Continue
			default:
				// Also continue
			}
		}
	}
	// Ignore errors
	return len(p), nil
}

func (l *mqttLogger) Enable(enable bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.enable = enable
}

func (l *mqttLogger) SetDestination(topic string, client mqttapi.Client) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.topic = topic
	l.client = client
}

type logMsg struct {
	Message string `json:"message"`
}

func (l *mqttLogger) run(ctx context.Context) {
	for {
		l.mutex.Lock()
		client := l.client
		topic := l.topic
		enabled := l.enable
		l.mutex.Unlock()

		if enabled && topic != "" && client != nil {
			select {
			case msg := <-l.queue:
				payload, err := json.Marshal(logMsg{Message: string(msg)})
				if err != nil {
					continue
				}
				client.Publish(topic, 0, false, payload).WaitTimeout(mqttSendTimeout)
			case <-ctx.Done():
				return
			}
		} else {
			select {
			case <-time.After(time.Second):
				// Continue
			case <-ctx.Done():
				return
			}
		}
	}
}
