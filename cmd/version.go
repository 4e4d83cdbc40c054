package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is stamped by release builds:
//
//	-ldflags "-X github.com/qirim/qirim/cmd.version=v1.0.0"
var version string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the QIrIm build",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "QIrIm %s (%s, %s/%s)\n",
			currentVersion(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

// currentVersion prefers the stamped version, then the module version
// recorded by go install.
func currentVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}
