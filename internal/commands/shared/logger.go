// Copyright 2025 The tempdocs authors
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

package shared

import (
	"log/slog"

	"github.com/tempdocs/tempdocs/internal/log"
)

// Logger builds the process logger from the environment and the global
// verbosity flags. --verbose lowers the level to debug, --quiet raises it
// to error.
func Logger() *slog.Logger {
	cfg := log.FromEnv()
	if verboseFlag {
		cfg.Level = "debug"
	}
	if quietFlag {
		cfg.Level = "error"
	}
	return log.New(cfg)
}
