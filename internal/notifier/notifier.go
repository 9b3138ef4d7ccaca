package notifier

import (
	"context"
	"time"
)

const (
	EventSyncStart   = "sync_start"
	EventSyncSuccess = "sync_success"
	EventDelete      = "delete"
	EventError       = "error"
)

type SyncSummary struct {
	Bucket   string
	Dir      string
	Uploaded int
	Skipped  int
	Failed   int
	Duration time.Duration
}

type Notifier interface {
	NotifySyncStart(ctx context.Context, bucket, dir string) error
	NotifySyncSuccess(ctx context.Context, s SyncSummary) error
	NotifyDelete(ctx context.Context, bucket, path string) error
	NotifyError(ctx context.Context, bucket, operation string, err error) error
}
