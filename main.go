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

package main

import (
	"context"
	"fmt"
	"os"

	terminate "github.com/pulcy/go-terminate"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/gardennet/GardenWorker/model"
	"github.com/gardennet/GardenWorker/pkg/controllers"
	"github.com/gardennet/GardenWorker/pkg/environment"
	"github.com/gardennet/GardenWorker/pkg/events"
	"github.com/gardennet/GardenWorker/pkg/hal"
	"github.com/gardennet/GardenWorker/pkg/logging"
	"github.com/gardennet/GardenWorker/pkg/sched"
	"github.com/gardennet/GardenWorker/pkg/server"
	"github.com/gardennet/GardenWorker/pkg/service"
	"github.com/gardennet/GardenWorker/pkg/tools"
	"github.com/gardennet/GardenWorker/pkg/ui"
)

const (
	projectName      = "gardenworker"
	defaultHTTPPort  = 7120
	defaultSSHPort   = 7122
	simulationMarker = "[simulated]"
)

var (
	projectVersion = "dev"
	projectBuild   = "dev"
)

func main() {
	var levelFlag string
	var serverHost string
	var httpPort int
	var sshPort int
	var driverName string
	var simulation bool
	var stdio bool
	var mqttBroker string
	var mqttTopicPrefix string
	var deviceMapPath string
	var hostID string

	pflag.StringVarP(&levelFlag, "level", "l", "debug", "Set log level")
	pflag.StringVarP(&driverName, "driver", "d", "", "GPIO line driver to use (sysfs|memmap|periph); autodetected when empty")
	pflag.BoolVarP(&simulation, "simulation", "s", false, "Use the simulated GPIO backend")
	pflag.StringVar(&serverHost, "host", "0.0.0.0", "Host address the HTTP server will listen on")
	pflag.IntVar(&httpPort, "port", defaultHTTPPort, "Port the HTTP server will listen on")
	pflag.IntVar(&sshPort, "ssh-port", defaultSSHPort, "Port the SSH dashboard will listen on (0 disables SSH)")
	pflag.BoolVar(&stdio, "stdio", false, "Serve JSON-RPC requests on stdin/stdout")
	pflag.StringVar(&mqttBroker, "mqtt-broker", "", "Address (host:port) of the MQTT broker (empty disables MQTT)")
	pflag.StringVar(&mqttTopicPrefix, "mqtt-topic-prefix", projectName, "Prefix of all MQTT topics")
	pflag.StringVar(&deviceMapPath, "device-map", "", "Path of the device map file")
	pflag.StringVar(&hostID, "host-id", "", "Override the worker host ID")
	pflag.Parse()

	level, err := zerolog.ParseLevel(levelFlag)
	if err != nil {
		Exitf("Invalid log level '%s': %v\n", levelFlag, err)
	}
	logWriter := logging.NewMultiWriter(zerolog.ConsoleWriter{Out: os.Stderr})
	logger := zerolog.New(logWriter).Level(level).With().Timestamp().Logger()

	// Prepare to shutdown in a controlled manor
	ctx, cancel := context.WithCancel(context.Background())
	t := terminate.NewTerminator(func(template string, args ...interface{}) {
		logger.Info().Msgf(template, args...)
	}, cancel)
	go t.ListenSignals()

	var mqttLogWriter logging.MQTTWriter
	if mqttBroker != "" {
		mqttLogWriter = logging.NewMQTTWriter(ctx)
		logWriter.Add(mqttLogWriter)
	}

	// Select the GPIO backend
	bus := events.NewBus(logger)
	if driverName == "" && !simulation {
		driverName = environment.AutoDetectDriver(logger)
		logger.Info().Str("driver", driverName).Msg("Auto-detected GPIO line driver")
	}
	halAPI, err := hal.New(hal.Config{
		Simulation: simulation,
		Driver:     hal.DriverName(driverName),
	}, hal.Dependencies{
		Log: logger,
		Bus: bus,
	})
	if err != nil {
		Exitf("Failed to initialize GPIO backend: %v\n", err)
	}

	// Build the tool dispatcher
	scheduler := sched.New(logger)
	marker := ""
	if simulation {
		marker = simulationMarker
	}
	dispatcher := tools.New(tools.Config{
		SimulationMarker: marker,
	}, tools.Dependencies{
		Log: logger,
		Bus: bus,
	})
	deviceService := controllers.NewService(controllers.Dependencies{
		Log:       logger,
		HAL:       halAPI,
		Scheduler: scheduler,
	})
	dispatcher.MustRegister(deviceService.Tools()...)

	var deviceMap *model.DeviceMap
	if deviceMapPath != "" {
		m, err := model.LoadDeviceMap(deviceMapPath)
		if err != nil {
			Exitf("Failed to load device map '%s': %v\n", deviceMapPath, err)
		}
		deviceMap = &m
	}

	dashboard := ui.New(logger, halAPI, scheduler, bus)
	svc, err := service.NewService(service.Config{
		ProgramName:    projectName,
		ProgramVersion: projectVersion,
		HostID:         hostID,
		Server: server.Config{
			Host:     serverHost,
			HTTPPort: httpPort,
			SSHPort:  sshPort,
		},
		MQTT: service.MQTTConfig{
			BrokerAddress: mqttBroker,
			TopicPrefix:   mqttTopicPrefix,
		},
		Stdio:     stdio,
		DeviceMap: deviceMap,
	}, service.Dependencies{
		Logger:     logger,
		HAL:        halAPI,
		Scheduler:  scheduler,
		Bus:        bus,
		Dispatcher: dispatcher,
		UI:         dashboard,
		LogWriter:  mqttLogWriter,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
	})
	if err != nil {
		Exitf("Failed to initialize Service: %v\n", err)
	}

	if !stdio {
		// In stdio mode stdout belongs to the protocol.
		fmt.Printf("Starting %s (version %s build %s)\n", projectName, projectVersion, projectBuild)
	}
	if err := svc.Run(ctx); err != nil {
		Exitf("Service run failed: %#v", err)
	}
}

// Print the given error message and exit with code 1
func Exitf(message string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, message, args...)
	os.Exit(1)
}
