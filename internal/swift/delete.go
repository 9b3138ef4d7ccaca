package swift

import (
	"context"
	"encoding/json"
	"fmt"
)

type Delete struct {
	*Command
}

func NewDelete(conn *Connection) *Delete {
	return &Delete{Command: NewCommand(conn)}
}

// Execute removes the object at path and returns the decoded JSON reply.
// A 404 becomes *NotFoundError; any other failure, including an undecodable
// body or a JSON null, becomes *ConnectionError.
func (d *Delete) Execute(ctx context.Context, path string) (map[string]any, error) {
	s := d.snapshot()
	resp, err := d.do(ctx, s, "DELETE", objectURL(s.UploadURL, path),
		map[string]string{"Accept": "application/json"}, nil)
	if err != nil {
		return nil, wrapFailure(err)
	}
	var out map[string]any
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, &ConnectionError{Err: fmt.Errorf("decode delete response: %w", err)}
	}
	if out == nil {
		return nil, &ConnectionError{Err: fmt.Errorf("decode delete response: not a JSON object")}
	}
	return out, nil
}
