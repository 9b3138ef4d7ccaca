package swift

import (
	"context"
)

type Download struct {
	*Command
}

func NewDownload(conn *Connection) *Download {
	return &Download{Command: NewCommand(conn)}
}

// Execute fetches the object at path through the public endpoint.
func (d *Download) Execute(ctx context.Context, path string) ([]byte, error) {
	s := d.snapshot()
	base := s.PublicURL + "/" + d.conn.creds.Bucket
	resp, err := d.do(ctx, s, "GET", objectURL(base, path), nil, nil)
	if err != nil {
		return nil, wrapFailure(err)
	}
	return resp.Body, nil
}
