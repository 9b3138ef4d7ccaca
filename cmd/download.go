package cmd

import (
	"os"
	"path"

	"github.com/spf13/cobra"

	"SwiftPush/internal/swift"
)

func init() {
	rootCmd.AddCommand(downloadCmd)
}

var downloadCmd = &cobra.Command{
	Use:   "download <object-path> [dest]",
	Short: "Download one object (to stdout when dest is -)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runDownload,
}

func runDownload(cmd *cobra.Command, args []string) error {
	_, _, conn, err := setup(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	data, err := swift.NewDownload(conn).Execute(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	dest := path.Base(args[0])
	if len(args) == 2 {
		dest = args[1]
	}
	if dest == "-" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return err
	}
	cmd.Printf("Wrote %d bytes to %s\n", len(data), dest)
	return nil
}
