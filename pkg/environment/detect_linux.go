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

package environment

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// AutoDetectDriver detects the default GPIO line driver based on the
// environment.
func AutoDetectDriver(log zerolog.Logger) string {
	if model, err := os.ReadFile("/proc/device-tree/model"); err == nil {
		hardware := strings.TrimSpace(strings.TrimRight(string(model), "\x00"))
		if strings.Contains(hardware, "Raspberry Pi") {
			log.Debug().Str("model", hardware).Msg("Detected Raspberry Pi")
			return "memmap"
		}
	}
	var name unix.Utsname
	if err := unix.Uname(&name); err != nil {
		// Fallback to sysfs
		return "sysfs"
	}
	release := strings.TrimSpace(string(name.Release[:]))
	if strings.Contains(release, "raspi") || strings.Contains(release, "-rpi-") {
		return "memmap"
	}
	return "sysfs"
}
