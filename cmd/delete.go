package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"SwiftPush/internal/notifier"
	"SwiftPush/internal/swift"
)

func init() {
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <object-path>",
	Short: "Delete one object and print the server's JSON reply",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, log, conn, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	notif := notifier.FromConfig(cfg.Notifications, func(msg string) { log.Warn(msg) })
	bucket := cfg.Swift.Bucket

	reply, err := swift.NewDelete(conn).Execute(ctx, args[0])
	if err != nil {
		if notif != nil {
			if nerr := notif.NotifyError(ctx, bucket, "delete", err); nerr != nil {
				log.WithError(nerr).Warn("notify")
			}
		}
		return err
	}
	if notif != nil {
		if nerr := notif.NotifyDelete(ctx, bucket, args[0]); nerr != nil {
			log.WithError(nerr).Warn("notify")
		}
	}
	out, err := json.MarshalIndent(reply, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}
