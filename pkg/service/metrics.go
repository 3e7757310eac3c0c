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
	"github.com/gardennet/GardenWorker/pkg/metrics"
)

const (
	subSystem = "service"
)

var (
	// Number of devices claimed from the device map at startup
	devicesClaimedGauge = metrics.MustRegisterGauge(subSystem,
		"devices_claimed",
		"Number of devices claimed from the device map at startup")
	// Number of requests received on the MQTT request topic
	mqttRequestsTotal = metrics.MustRegisterCounter(subSystem,
		"mqtt_requests_total",
		"Number of requests received on the MQTT request topic")
	// Number of pin states mirrored onto MQTT state topics
	mqttPinStatesTotal = metrics.MustRegisterCounter(subSystem,
		"mqtt_pin_states_total",
		"Number of pin states mirrored onto MQTT state topics")
)
