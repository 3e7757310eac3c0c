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

package hal

import (
	"github.com/gardennet/GardenWorker/pkg/metrics"
)

const (
	subSystem = "hal"
)

var (
	// Number of pin setup requests per direction
	pinSetupsTotal = metrics.MustRegisterCounterVec(subSystem,
		"pin_setups_total",
		"Number of pin setup requests per direction",
		"direction")
	// Number of pin write requests
	pinWritesTotal = metrics.MustRegisterCounter(subSystem,
		"pin_writes_total",
		"Number of pin write requests")
	// Number of pin read requests
	pinReadsTotal = metrics.MustRegisterCounter(subSystem,
		"pin_reads_total",
		"Number of pin read requests")
	// Number of failed pin operations per operation
	pinErrorsTotal = metrics.MustRegisterCounterVec(subSystem,
		"pin_errors_total",
		"Number of failed pin operations per operation",
		"operation")
	// Last known value of a configured pin
	pinValueGauge = metrics.MustRegisterGaugeVec(subSystem,
		"pin_value",
		"Last known value of a configured pin (0=LOW, 1=HIGH)",
		"pin")
	// Number of configured pins
	pinsConfiguredGauge = metrics.MustRegisterGauge(subSystem,
		"pins_configured",
		"Number of configured pins")
)
