package syncdir

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"SwiftPush/internal/lock"
)

const stateVersion = 1

// State maps object paths to the blake3 hash of the content last uploaded
// there.
type State struct {
	Version int               `json:"version"`
	Bucket  string            `json:"bucket"`
	Objects map[string]string `json:"objects"`
}

// StatePath names the state file after the bucket the same way the sync lock
// is named, so both always land in dir.
func StatePath(dir, bucket string) string {
	return filepath.Join(dir, lock.SanitizeName(bucket)+".json")
}

// LoadState returns an empty state when the file does not exist.
func LoadState(path, bucket string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{Version: stateVersion, Bucket: bucket, Objects: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("read state %s: %w", path, err)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", path, err)
	}
	if s.Version != stateVersion || s.Bucket != bucket || s.Objects == nil {
		return &State{Version: stateVersion, Bucket: bucket, Objects: map[string]string{}}, nil
	}
	return &s, nil
}

// Save writes the state through a temp file and rename.
func (s *State) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}

// HashFile returns the hex blake3 digest of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
