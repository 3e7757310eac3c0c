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
	"crypto/sha1"
	"fmt"
	"io"
	"net"
	"os"
	"runtime"
	"sort"
	"strings"

	aerr "github.com/ewoutp/go-aggregate-error"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gardennet/GardenWorker/model"
	"github.com/gardennet/GardenWorker/pkg/events"
	"github.com/gardennet/GardenWorker/pkg/hal"
	"github.com/gardennet/GardenWorker/pkg/logging"
	"github.com/gardennet/GardenWorker/pkg/sched"
	"github.com/gardennet/GardenWorker/pkg/server"
	"github.com/gardennet/GardenWorker/pkg/tools"
)

type Service interface {
	// Run the worker until the given context is cancelled.
	Run(ctx context.Context) error
}

type Config struct {
	ProgramName    string
	ProgramVersion string
	// HostID identifies this worker; derived from the machine when empty
	HostID string
	// Server holds the HTTP & SSH transport settings
	Server server.Config
	// MQTT holds the MQTT transport settings
	MQTT MQTTConfig
	// Stdio enables the line oriented stdio transport
	Stdio bool
	// DeviceMap lists the devices to claim at startup
	DeviceMap *model.DeviceMap
}

type Dependencies struct {
	Logger     zerolog.Logger
	HAL        hal.API
	Scheduler  *sched.Scheduler
	Bus        *events.Bus
	Dispatcher *tools.Dispatcher
	UI         server.UI
	// LogWriter, when set, ships log lines over the MQTT transport
	LogWriter logging.MQTTWriter
	// Streams used by the stdio transport
	Stdin  io.Reader
	Stdout io.Writer
}

type service struct {
	Config
	Dependencies

	hostID string
}

// NewService creates a Service instance and returns it.
func NewService(conf Config, deps Dependencies) (Service, error) {
	deps.Logger = deps.Logger.With().Str("component", "service").Logger()
	// Create host ID
	hostID := conf.HostID
	if hostID == "" {
		var err error
		hostID, err = createHostID()
		if err != nil {
			return nil, errors.Wrap(err, "Failed to create host ID")
		}
	}
	deps.Logger = deps.Logger.With().Str("host-id", hostID).Logger()
	if conf.MQTT.ClientID == "" {
		conf.MQTT.ClientID = fmt.Sprintf("%s-%s", conf.ProgramName, hostID)
	}
	if conf.MQTT.TopicPrefix == "" {
		conf.MQTT.TopicPrefix = conf.ProgramName
	}
	return &service{
		Config:       conf,
		Dependencies: deps,
		hostID:       hostID,
	}, nil
}

// Run claims the configured devices and then serves tool calls on all
// enabled transports until the given context is canceled.
func (s *service) Run(ctx context.Context) error {
	log := s.Logger
	defer s.closeResources()

	if s.DeviceMap != nil {
		if err := s.claimDevices(ctx); err != nil {
			return maskAny(err)
		}
	}

	endpoint := server.NewEndpoint(log, s.Dispatcher, server.ServerInfo{
		Name:    s.ProgramName,
		Version: s.ProgramVersion,
	})
	httpServer, err := server.New(s.Server, log, endpoint, s.UI)
	if err != nil {
		return maskAny(err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.Run(ctx) })
	if s.Stdio {
		stdio := server.NewStdio(log, endpoint, s.Stdin, s.Stdout)
		g.Go(func() error {
			// A closed input stream means our caller is gone,
			// take the whole service down with it.
			defer cancel()
			return stdio.Run(ctx)
		})
	}
	if s.MQTT.BrokerAddress != "" {
		mqtt := newMQTTTransport(log, s.MQTT, endpoint, s.Bus, s.LogWriter)
		g.Go(func() error { return mqtt.Run(ctx) })
	}
	log.Info().
		Str("version", s.ProgramVersion).
		Msg("GardenWorker is ready for tool calls")
	return g.Wait()
}

// claimDevices configures the pin of every mapped device as output, so
// lights and pumps are addressable right after startup.
func (s *service) claimDevices(ctx context.Context) error {
	log := s.Logger
	var ae aerr.AggregateError
	count := 0
	for _, device := range s.DeviceMap.Devices {
		log := log.With().
			Str("device", device.Name).
			Str("kind", string(device.Kind)).
			Int("pin", int(device.Pin)).
			Logger()
		if err := s.HAL.Setup(ctx, device.Pin, model.DirectionOutput); err != nil {
			log.Error().Err(err).Msg("Failed to claim device pin")
			ae.Add(err)
			continue
		}
		count++
		log.Debug().Msg("claimed device pin")
	}
	log.Info().Int("count", count).Msg("Claimed configured devices")
	devicesClaimedGauge.Set(float64(count))
	return ae.AsError()
}

// closeResources stops the scheduler and releases all claimed pins.
func (s *service) closeResources() {
	var ae aerr.AggregateError
	if s.Scheduler != nil {
		if err := s.Scheduler.Close(); err != nil {
			ae.Add(err)
		}
	}
	if s.HAL != nil {
		if err := s.HAL.Close(); err != nil {
			ae.Add(err)
		}
	}
	if err := ae.AsError(); err != nil {
		s.Logger.Error().Err(err).Msg("Failed to close resources")
	}
}

// create a host ID based on the machine ID or network hardware addresses.
func createHostID() (string, error) {
	if content, err := os.ReadFile("/etc/machine-id"); err == nil {
		content = []byte(strings.TrimSpace(string(content)))
		id := fmt.Sprintf("%x", sha1.Sum(content))
		return id[:10], nil
	}

	ifs, err := net.Interfaces()
	if err != nil {
		return "", maskAny(err)
	}
	list := make([]string, 0, len(ifs))
	for _, v := range ifs {
		f := v.Flags
		if f&net.FlagUp != 0 && f&net.FlagLoopback == 0 {
			h := v.HardwareAddr.String()
			if len(h) > 0 {
				list = append(list, h)
			}
		}
	}
	sort.Strings(list) // sort host IDs
	list = append(list, runtime.GOOS, runtime.GOARCH)
	data := []byte(strings.Join(list, ","))
	id := fmt.Sprintf("%x", sha1.Sum(data))
	return id[:10], nil
}
