// Package syncdir mirrors a local directory into a container, uploading only
// files whose content changed since the last run.
package syncdir

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"SwiftPush/internal/lock"
	"SwiftPush/internal/swift"
)

// Uploader is satisfied by *swift.Upload.
type Uploader interface {
	Execute(ctx context.Context, path string, file swift.File) (bool, error)
}

// Session is satisfied by *swift.Connection.
type Session interface {
	Connected() bool
	Connect(ctx context.Context) (*swift.Connection, error)
}

type Options struct {
	Dir      string
	Bucket   string
	Prefix   string
	Exclude  []string
	StateDir string
	// LockTTL is the age after which a leftover lock file is ignored.
	LockTTL time.Duration
	Force   bool
	DryRun  bool
	// Session, when set, is re-authenticated before an upload if the token
	// has expired.
	Session Session
	Logger  logrus.FieldLogger
}

type Result struct {
	Uploaded    int
	Skipped     int
	Failed      int
	FailedPaths []string
}

var ErrNotDirectory = errors.New("not a directory")

func Run(ctx context.Context, up Uploader, opts Options) (Result, error) {
	var res Result
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	info, err := os.Stat(opts.Dir)
	if err != nil {
		return res, fmt.Errorf("sync source: %w", err)
	}
	if !info.IsDir() {
		return res, fmt.Errorf("sync source %s: %w", opts.Dir, ErrNotDirectory)
	}
	if opts.StateDir == "" {
		return res, fmt.Errorf("sync: state dir is required")
	}

	locker, err := lock.NewLocal(lock.LocalOptions{Dir: opts.StateDir, Name: opts.Bucket, TTL: opts.LockTTL})
	if err != nil {
		return res, err
	}
	if err := locker.Acquire(ctx); err != nil {
		return res, fmt.Errorf("sync lock: %w", err)
	}
	defer func() {
		if err := locker.Release(context.Background()); err != nil {
			log.WithError(err).Warn("release sync lock")
		}
	}()

	statePath := StatePath(opts.StateDir, opts.Bucket)
	state, err := LoadState(statePath, opts.Bucket)
	if err != nil {
		return res, err
	}

	files, err := collect(opts.Dir, opts.Exclude)
	if err != nil {
		return res, err
	}

	var runErr error
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		objectPath := path.Join(opts.Prefix, filepath.ToSlash(rel))
		local := filepath.Join(opts.Dir, rel)

		hash, err := HashFile(local)
		if err != nil {
			runErr = fmt.Errorf("hash %s: %w", local, err)
			break
		}
		if !opts.Force && state.Objects[objectPath] == hash {
			res.Skipped++
			continue
		}
		entry := log.WithField("object", objectPath)
		if opts.DryRun {
			entry.Info("would upload")
			res.Uploaded++
			continue
		}

		if opts.Session != nil && !opts.Session.Connected() {
			entry.Info("token expired, reconnecting")
			if _, err := opts.Session.Connect(ctx); err != nil {
				runErr = err
				break
			}
		}

		ok, err := uploadFile(ctx, up, objectPath, local)
		if err != nil {
			runErr = fmt.Errorf("upload %s: %w", objectPath, err)
			break
		}
		if !ok {
			entry.Warn("upload rejected by server")
			res.Failed++
			res.FailedPaths = append(res.FailedPaths, objectPath)
			continue
		}
		entry.Debug("uploaded")
		state.Objects[objectPath] = hash
		res.Uploaded++
	}

	if !opts.DryRun {
		if err := state.Save(statePath); err != nil {
			return res, errors.Join(runErr, err)
		}
	}
	return res, runErr
}

func uploadFile(ctx context.Context, up Uploader, objectPath, local string) (bool, error) {
	f, err := os.Open(local)
	if err != nil {
		return false, err
	}
	defer f.Close()
	return up.Execute(ctx, objectPath, f)
}

// collect returns regular files under dir, relative to it, in lexical order.
func collect(dir string, exclude []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == dir {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if excluded(rel, d.Name(), exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return files, nil
}

func excluded(rel, name string, patterns []string) bool {
	slashed := filepath.ToSlash(rel)
	for _, p := range patterns {
		if ok, _ := path.Match(p, name); ok {
			return true
		}
		if ok, _ := path.Match(p, slashed); ok {
			return true
		}
	}
	return false
}
