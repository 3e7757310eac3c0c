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

package tools

import (
	"github.com/gardennet/GardenWorker/pkg/metrics"
)

const (
	subSystem = "dispatch"
)

var (
	// Number of tool calls per tool and outcome
	toolCallsTotal = metrics.MustRegisterCounterVec(subSystem,
		"tool_calls_total",
		"Number of tool calls per tool and outcome",
		"tool", "outcome")
	// Duration of tool calls
	callDurations = metrics.MustRegisterHistogram(subSystem,
		"call_duration_seconds",
		"Duration of tool calls",
		nil)
)
