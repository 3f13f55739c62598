package cli

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/mrz1836/punkmint/internal/output"
)

// devVersionString is the version reported by builds without release info.
const devVersionString = "dev"

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Date      string `json:"date,omitempty"`
	GoVersion string `json:"go_version"`
}

//nolint:gochecknoglobals // Set once from main
var buildInfo BuildInfo

// SetBuildInfo records the release metadata injected at link time.
func SetBuildInfo(version, commit, date string) {
	buildInfo = BuildInfo{Version: version, Commit: commit, Date: date}
}

// GetCurrentVersion returns the version of the running binary.
func GetCurrentVersion() string {
	if buildInfo.Version != "" {
		return buildInfo.Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return devVersionString
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(_ *cobra.Command, _ []string) error {
		info := buildInfo
		info.Version = GetCurrentVersion()
		info.GoVersion = runtime.Version()
		return formatter.Print(info)
	},
}

// Fields implements output.Fielder.
func (b BuildInfo) Fields() output.Fields {
	return output.Fields{
		{Label: "Version", Value: b.Version},
		{Label: "Commit", Value: b.Commit},
		{Label: "Built", Value: b.Date},
		{Label: "Go", Value: b.GoVersion},
	}
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(versionCmd)
}
