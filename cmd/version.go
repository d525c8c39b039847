package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/store"
)

// version is stamped with -ldflags "-X ...cmd.version=v1.2.3".
var version = ""

// buildVersion prefers the stamped version, then the module version that
// `go install pkg@vX` records, then "dev".
func buildVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version, Go runtime and database schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := struct {
			Version string `json:"version"`
			Go      string `json:"go"`
			Schema  string `json:"schema"`
		}{buildVersion(), runtime.Version(), store.SchemaVersion}

		if jsonOutput(cmd) {
			return printJSON(cmd, v)
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "vow %s (%s, schema %s)\n", v.Version, v.Go, v.Schema)
		return err
	},
}
