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

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/tempdocs/tempdocs/internal/cli"
	"github.com/tempdocs/tempdocs/internal/commands/completion"
	"github.com/tempdocs/tempdocs/internal/commands/generate"
	"github.com/tempdocs/tempdocs/internal/commands/publish"
	"github.com/tempdocs/tempdocs/internal/commands/serve"
	"github.com/tempdocs/tempdocs/internal/commands/validate"
	versioncmd "github.com/tempdocs/tempdocs/internal/commands/version"
)

// Version information (injected via ldflags at build time)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	// Set version information from build-time ldflags
	cli.SetVersion(version, commit, buildDate)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create root command and add subcommands
	rootCmd := cli.NewRootCommand()

	rootCmd.AddCommand(generate.NewCommand())
	rootCmd.AddCommand(validate.NewCommand())
	rootCmd.AddCommand(publish.NewCommand())
	rootCmd.AddCommand(serve.NewCommand())
	rootCmd.AddCommand(completion.NewCommand())
	rootCmd.AddCommand(versioncmd.NewVersionCommand())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cli.HandleExitError(err)
	}
}
