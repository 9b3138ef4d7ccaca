package swift

import (
	"context"
	"encoding/json"
	"fmt"
)

// Object is one entry of a container listing.
type Object struct {
	Name         string `json:"name"`
	Hash         string `json:"hash"`
	Bytes        int64  `json:"bytes"`
	ContentType  string `json:"content_type"`
	LastModified string `json:"last_modified"`
}

type List struct {
	*Command
}

func NewList(conn *Connection) *List {
	return &List{Command: NewCommand(conn)}
}

// Execute returns the container listing as reported by the server in one
// request. An empty container (204) yields an empty slice.
func (l *List) Execute(ctx context.Context) ([]Object, error) {
	s := l.snapshot()
	resp, err := l.do(ctx, s, "GET", s.UploadURL,
		map[string]string{"Accept": "application/json"}, nil)
	if err != nil {
		return nil, wrapFailure(err)
	}
	if len(resp.Body) == 0 {
		return []Object{}, nil
	}
	var out []Object
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, &ConnectionError{Err: fmt.Errorf("decode listing: %w", err)}
	}
	return out, nil
}
