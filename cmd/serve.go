package cmd

import (
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the scheduled mismatch scan",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if host, _ := cmd.Flags().GetString("host"); host != "" {
			d.Config.API.Host = host
		}
		if cmd.Flags().Changed("port") {
			d.Config.API.Port, _ = cmd.Flags().GetInt("port")
		}
		d.Server.SetVersion(buildVersion())
		return d.Serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("host", "", "Listen host (overrides api.host)")
	serveCmd.Flags().IntP("port", "p", 0, "Listen port (overrides api.port)")
}
