package doctor

import (
	"context"
	"fmt"
	"os"
	"time"

	"SwiftPush/internal/config"
	"SwiftPush/internal/lock"
	"SwiftPush/internal/swift"
)

type CheckResult struct {
	Name   string
	OK     bool
	Detail string
}

const checkTimeout = 10 * time.Second

// Run executes all checks in order. Container checks are skipped when
// authentication fails.
func Run(ctx context.Context, cfg *config.Config, conn *swift.Connection) []CheckResult {
	var results []CheckResult

	results = append(results, checkConfig(cfg))

	if conn != nil {
		ok, detail := checkAuth(ctx, conn)
		results = append(results, CheckResult{Name: "auth", OK: ok, Detail: detail})
		if ok {
			ok, detail = checkContainer(ctx, conn)
		} else {
			detail = "skipped: not authenticated"
		}
		results = append(results, CheckResult{Name: "container", OK: ok, Detail: detail})
	} else {
		results = append(results, CheckResult{Name: "auth", OK: false, Detail: "swift not configured"})
	}

	var syncCfg *config.SyncConfig
	if cfg != nil {
		syncCfg = cfg.Sync
	}
	dir := config.StateDir(syncCfg)

	ok, detail := checkStateDir(dir)
	results = append(results, CheckResult{Name: "state dir", OK: ok, Detail: detail})

	ok, detail = checkLock(dir)
	results = append(results, CheckResult{Name: "lock", OK: ok, Detail: detail})

	return results
}

func checkConfig(cfg *config.Config) CheckResult {
	r := CheckResult{Name: "config"}
	switch {
	case cfg == nil:
		r.Detail = "no configuration loaded"
	case cfg.Swift == nil:
		r.Detail = "swift section missing"
	default:
		if err := config.Validate(cfg); err != nil {
			r.Detail = err.Error()
		} else {
			r.OK = true
			r.Detail = "configuration loaded"
		}
	}
	return r
}

func checkAuth(ctx context.Context, conn *swift.Connection) (bool, string) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if _, err := conn.Connect(ctx); err != nil {
		return false, fmt.Sprintf("authentication failed: %v", err)
	}
	return true, fmt.Sprintf("token valid until %s (admin=%s)", conn.ExpiresAt().Format(time.RFC3339), conn.AdminURL())
}

func checkContainer(ctx context.Context, conn *swift.Connection) (bool, string) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	objects, err := swift.NewList(conn).Execute(ctx)
	if err != nil {
		return false, fmt.Sprintf("list %s failed: %v", conn.UploadURL(), err)
	}
	return true, fmt.Sprintf("container reachable (%s, %d objects)", conn.Credentials().Bucket, len(objects))
}

func checkStateDir(dir string) (bool, string) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Sprintf("create %s failed: %v", dir, err)
	}
	f, err := os.CreateTemp(dir, "swiftpush-doctor-*")
	if err != nil {
		return false, fmt.Sprintf("create temp file failed in %s: %v", dir, err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString("test"); err != nil {
		_ = f.Close()
		return false, fmt.Sprintf("write temp file failed: %v", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Sprintf("close temp file failed: %v", err)
	}
	return true, fmt.Sprintf("state dir writable (%s)", dir)
}

func checkLock(dir string) (bool, string) {
	l, err := lock.NewLocal(lock.LocalOptions{Dir: dir, Name: "doctor"})
	if err != nil {
		return false, fmt.Sprintf("lock init failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.Acquire(ctx); err != nil {
		return false, fmt.Sprintf("lock acquire failed: %v", err)
	}
	if err := l.Release(context.Background()); err != nil {
		return false, fmt.Sprintf("lock release failed: %v", err)
	}
	return true, fmt.Sprintf("lock file usable (%s)", l.Path())
}
