package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"SwiftPush/internal/swift"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List objects in the container",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	_, _, conn, err := setup(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	objects, err := swift.NewList(conn).Execute(cmd.Context())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, o := range objects {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", o.Name, o.Bytes, o.ContentType, o.LastModified)
	}
	return w.Flush()
}
