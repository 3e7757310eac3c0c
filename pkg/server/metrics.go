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

package server

import (
	"github.com/gardennet/GardenWorker/pkg/metrics"
)

const (
	subSystem = "server"
)

var (
	// Number of JSON-RPC requests per method
	requestsTotal = metrics.MustRegisterCounterVec(subSystem,
		"requests_total",
		"Number of JSON-RPC requests per method",
		"method")
	// Number of JSON-RPC requests answered with an error, per code
	requestErrorsTotal = metrics.MustRegisterCounterVec(subSystem,
		"request_errors_total",
		"Number of JSON-RPC requests answered with an error, per code",
		"code")
)
