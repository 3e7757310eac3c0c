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

package controllers

import (
	"github.com/gardennet/GardenWorker/pkg/metrics"
)

const (
	subSystem = "controllers"
)

var (
	// Number of light requests per action
	lightActionsTotal = metrics.MustRegisterCounterVec(subSystem,
		"light_actions_total",
		"Number of light requests per action",
		"action")
	// Number of pump requests per action
	pumpActionsTotal = metrics.MustRegisterCounterVec(subSystem,
		"pump_actions_total",
		"Number of pump requests per action",
		"action")
	// Number of pump auto-stops fired
	autoStopsTotal = metrics.MustRegisterCounter(subSystem,
		"pump_auto_stops_total",
		"Number of pump auto-stops fired")
	// Number of pump auto-stops whose write failed
	autoStopFailuresTotal = metrics.MustRegisterCounter(subSystem,
		"pump_auto_stop_failures_total",
		"Number of pump auto-stops whose write failed")
)
