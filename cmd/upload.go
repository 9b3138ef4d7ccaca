package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"SwiftPush/internal/swift"
)

func init() {
	rootCmd.AddCommand(uploadCmd)
}

var uploadCmd = &cobra.Command{
	Use:   "upload <object-path> <file>",
	Short: "Upload one file to the container",
	Args:  cobra.ExactArgs(2),
	RunE:  runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	objectPath, filePath := args[0], args[1]
	_, _, conn, err := setup(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	ok, err := swift.NewUpload(conn).Execute(cmd.Context(), objectPath, f)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("upload of %s rejected by server", objectPath)
	}
	cmd.Printf("Uploaded %s to %s/%s\n", filePath, conn.UploadURL(), objectPath)
	return nil
}
