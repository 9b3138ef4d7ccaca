package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(connectCmd)
}

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Authenticate and show the token expiry and endpoints",
	Args:  cobra.NoArgs,
	RunE:  runConnect,
}

func runConnect(cmd *cobra.Command, args []string) error {
	_, _, conn, err := setup(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	cmd.Printf("Connected:  %v\n", conn.Connected())
	cmd.Printf("Expires:    %s (in %s)\n", conn.ExpiresAt().Format(time.RFC3339), time.Until(conn.ExpiresAt()).Round(time.Second))
	cmd.Printf("Admin URL:  %s\n", conn.AdminURL())
	cmd.Printf("Upload URL: %s\n", conn.UploadURL())
	cmd.Printf("Public URL: %s\n", conn.PublicURL())
	return nil
}
