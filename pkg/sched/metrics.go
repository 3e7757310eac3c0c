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

package sched

import (
	"github.com/gardennet/GardenWorker/pkg/metrics"
)

const (
	subSystem = "sched"
)

var (
	// Number of operations scheduled
	opsScheduledTotal = metrics.MustRegisterCounter(subSystem,
		"ops_scheduled_total",
		"Number of operations scheduled")
	// Number of operations replaced by a newer one on the same pin
	opsSupersededTotal = metrics.MustRegisterCounter(subSystem,
		"ops_superseded_total",
		"Number of operations replaced by a newer one on the same pin")
	// Number of operations canceled before firing
	opsCanceledTotal = metrics.MustRegisterCounter(subSystem,
		"ops_canceled_total",
		"Number of operations canceled before firing")
	// Number of operations claimed by their timer
	opsFiredTotal = metrics.MustRegisterCounter(subSystem,
		"ops_fired_total",
		"Number of operations claimed by their timer")
	// Number of timer fires that lost against a cancel or reschedule
	staleFiresTotal = metrics.MustRegisterCounter(subSystem,
		"stale_fires_total",
		"Number of timer fires that lost against a cancel or reschedule")
	// Number of pending operations
	opsPendingGauge = metrics.MustRegisterGauge(subSystem,
		"ops_pending",
		"Number of pending operations")
)
