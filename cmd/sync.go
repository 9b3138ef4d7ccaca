package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"SwiftPush/internal/config"
	"SwiftPush/internal/notifier"
	"SwiftPush/internal/swift"
	"SwiftPush/internal/syncdir"
)

var (
	syncForce  bool
	syncDryRun bool
	syncPrefix string
)

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "Upload every file, ignoring the saved state")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Only report what would be uploaded")
	syncCmd.Flags().StringVar(&syncPrefix, "prefix", "", "Object path prefix (overrides sync.prefix)")
}

var syncCmd = &cobra.Command{
	Use:   "sync <dir>",
	Short: "Upload new and changed files from a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, log, conn, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	dir := args[0]
	bucket := cfg.Swift.Bucket
	notif := notifier.FromConfig(cfg.Notifications, func(msg string) { log.Warn(msg) })

	opts := syncdir.Options{
		Dir:      dir,
		Bucket:   bucket,
		StateDir: config.StateDir(cfg.Sync),
		LockTTL:  time.Hour,
		Force:    syncForce,
		DryRun:   syncDryRun,
		Session:  conn,
		Logger:   log,
	}
	if cfg.Sync != nil {
		opts.Prefix = cfg.Sync.Prefix
		opts.Exclude = cfg.Sync.Exclude
	}
	if syncPrefix != "" {
		opts.Prefix = config.NormalizePrefix(syncPrefix)
	}

	if notif != nil {
		if nerr := notif.NotifySyncStart(ctx, bucket, dir); nerr != nil {
			log.WithError(nerr).Warn("notify")
		}
	}
	start := time.Now()
	res, err := syncdir.Run(ctx, swift.NewUpload(conn), opts)
	duration := time.Since(start)
	if err != nil {
		if notif != nil {
			if nerr := notif.NotifyError(ctx, bucket, "sync", err); nerr != nil {
				log.WithError(nerr).Warn("notify")
			}
		}
		return err
	}
	if notif != nil {
		summary := notifier.SyncSummary{
			Bucket: bucket, Dir: dir, Duration: duration,
			Uploaded: res.Uploaded, Skipped: res.Skipped, Failed: res.Failed,
		}
		if nerr := notif.NotifySyncSuccess(ctx, summary); nerr != nil {
			log.WithError(nerr).Warn("notify")
		}
	}

	cmd.Printf("Uploaded %d, skipped %d, failed %d in %s\n", res.Uploaded, res.Skipped, res.Failed, duration.Round(time.Millisecond))
	for _, p := range res.FailedPaths {
		cmd.Printf("  failed: %s\n", p)
	}
	if res.Failed > 0 {
		return fmt.Errorf("%d uploads rejected", res.Failed)
	}
	return nil
}
