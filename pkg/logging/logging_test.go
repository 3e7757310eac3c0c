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
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	mqttapi "github.com/eclipse/paho.mqtt.golang"
)

func TestMultiWriterFansOut(t *testing.T) {
	var first, second bytes.Buffer
	w := NewMultiWriter(&first, &second)

	n, err := w.Write([]byte("hello\n"))
	if err != nil || n != 6 {
		t.Fatalf("Write returned %d, %v", n, err)
	}
	if first.String() != "hello\n" || second.String() != "hello\n" {
		t.Errorf("unexpected outputs %q and %q", first.String(), second.String())
	}
}

func TestMultiWriterAdd(t *testing.T) {
	var first, late bytes.Buffer
	w := NewMultiWriter(&first)

	w.Write([]byte("one\n"))
	w.Add(&late)
	w.Write([]byte("two\n"))

	if first.String() != "one\ntwo\n" {
		t.Errorf("unexpected first output %q", first.String())
	}
	if late.String() != "two\n" {
		t.Errorf("unexpected late output %q", late.String())
	}
}

type fakeToken struct{}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}
func (t *fakeToken) Error() error { return nil }

// fakeMQTTClient records published payloads; all other client calls
// are left to the embedded nil interface.
type fakeMQTTClient struct {
	mqttapi.Client
	mutex    sync.Mutex
	payloads [][]byte
}

func (c *fakeMQTTClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqttapi.Token {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.payloads = append(c.payloads, payload.([]byte))
	return &fakeToken{}
}

func (c *fakeMQTTClient) published() [][]byte {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([][]byte(nil), c.payloads...)
}

func TestMQTTWriterDelivers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := &fakeMQTTClient{}
	w := NewMQTTWriter(ctx)
	w.SetDestination("gardenworker/log", client)
	w.Enable(true)

	if _, err := w.Write([]byte("ready")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if payloads := client.published(); len(payloads) > 0 {
			var msg logMsg
			if err := json.Unmarshal(payloads[0], &msg); err != nil {
				t.Fatalf("cannot decode payload: %v", err)
			}
			if msg.Message != "ready" {
				t.Errorf("unexpected message %q", msg.Message)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("no payload delivered in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestMQTTWriterNeverBlocks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := NewMQTTWriter(ctx)

	// Without a destination the queue fills up; writes must keep
	// returning instead of blocking the logger.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < mqttQueueSize*2; i++ {
			w.Write([]byte("overflow"))
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Write blocked on a full queue")
	}
}
