// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/sphereio/customer-import/cli/presenter"
)

// Set at build time with -ldflags "-X github.com/sphereio/customer-import/cli/cmd/version.Version=...".
var (
	Version   = "dev"
	GitCommit = ""
	BuildDate = ""
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

var Command = &cobra.Command{
	Use:   "version",
	Short: "Print the version of the CLI",
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := GetInfo()

		if presenter.GetOutputOptions(cmd).IsStructuredOutput() {
			return presenter.PrintMessage(cmd, "version", "Version", info)
		}

		presenter.Printf(cmd, "customer-import %s\n", info.Version)

		if info.GitCommit != "" {
			presenter.Printf(cmd, "commit:     %s\n", info.GitCommit)
		}

		if info.BuildDate != "" {
			presenter.Printf(cmd, "built:      %s\n", info.BuildDate)
		}

		presenter.Printf(cmd, "go version: %s %s\n", info.GoVersion, info.Platform)

		return nil
	},
}

func init() {
	presenter.AddOutputFlags(Command)
}

// GetInfo returns the build information, filling gaps from the module build info.
func GetInfo() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}

	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = setting.Value
			}
		case "vcs.time":
			if info.BuildDate == "" {
				info.BuildDate = setting.Value
			}
		}
	}

	return info
}
