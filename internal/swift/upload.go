package swift

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
)

const defaultContentType = "application/octet-stream"

// File is the content handed to Upload. *os.File satisfies it.
type File interface {
	io.Reader
	Name() string
}

type Upload struct {
	*Command
}

func NewUpload(conn *Connection) *Upload {
	return &Upload{Command: NewCommand(conn)}
}

// Execute stores the full content of file at path inside the container.
// It reports true only for 200 and 201. Other HTTP statuses yield false with a
// nil error; only a missing response yields a *ConnectionError.
func (u *Upload) Execute(ctx context.Context, path string, file File) (bool, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", file.Name(), err)
	}

	s := u.snapshot()
	resp, err := u.do(ctx, s, "PUT", objectURL(s.UploadURL, path),
		map[string]string{"Content-Type": ContentTypeFor(file.Name())}, content)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			return false, nil
		}
		return false, &ConnectionError{Err: err}
	}
	return resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated, nil
}

// ContentTypeFor infers a MIME type from the file name's extension.
func ContentTypeFor(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return defaultContentType
}
