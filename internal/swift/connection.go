// Package swift is a client for token-authenticated, Swift-style object storage.
package swift

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Credentials identify one tenant/user/container combination.
type Credentials struct {
	TenantName string
	Username   string
	Password   string
	AuthURL    string
	Bucket     string
}

// Session is the state produced by one successful authentication. It is never
// modified after creation; Connect replaces it as a whole.
type Session struct {
	TokenID   string
	ExpiresAt time.Time
	AdminURL  string
	UploadURL string
	PublicURL string
}

// ConnectionOptions may be left zero; NewConnection fills the defaults.
type ConnectionOptions struct {
	Transport Transport
	Logger    logrus.FieldLogger
	// Now overrides the wall clock used by Connected.
	Now func() time.Time
}

// Connection holds the credentials and the current authenticated session.
// It is safe for concurrent use.
type Connection struct {
	creds     Credentials
	transport Transport
	log       logrus.FieldLogger
	now       func() time.Time

	session atomic.Pointer[Session]
}

// NewConnection returns an unauthenticated Connection. Nil options fall back
// to an HTTPTransport that skips TLS verification and a discarding logger.
func NewConnection(creds Credentials, opts ConnectionOptions) *Connection {
	t := opts.Transport
	if t == nil {
		// Without a CA file NewHTTPTransport cannot fail.
		t, _ = NewHTTPTransport(TransportOptions{InsecureSkipVerify: true})
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Connection{creds: creds, transport: t, log: log, now: now}
}

func (c *Connection) Credentials() Credentials { return c.creds }

func (c *Connection) Transport() Transport { return c.transport }

func (c *Connection) Logger() logrus.FieldLogger { return c.log }

// Session returns a snapshot of the current session, or nil if Connect has
// never succeeded.
func (c *Connection) Session() *Session {
	return c.session.Load()
}

func (c *Connection) TokenID() string {
	if s := c.session.Load(); s != nil {
		return s.TokenID
	}
	return ""
}

func (c *Connection) ExpiresAt() time.Time {
	if s := c.session.Load(); s != nil {
		return s.ExpiresAt
	}
	return time.Time{}
}

func (c *Connection) AdminURL() string {
	if s := c.session.Load(); s != nil {
		return s.AdminURL
	}
	return ""
}

func (c *Connection) UploadURL() string {
	if s := c.session.Load(); s != nil {
		return s.UploadURL
	}
	return ""
}

func (c *Connection) PublicURL() string {
	if s := c.session.Load(); s != nil {
		return s.PublicURL
	}
	return ""
}

// Connected reports whether a token is held and has not yet expired.
func (c *Connection) Connected() bool {
	s := c.session.Load()
	if s == nil || s.TokenID == "" {
		return false
	}
	return s.ExpiresAt.After(c.now())
}

type authRequest struct {
	Auth authBody `json:"auth"`
}

type authBody struct {
	TenantName          string              `json:"tenantName"`
	PasswordCredentials passwordCredentials `json:"passwordCredentials"`
}

type passwordCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Access *struct {
		Token *struct {
			ID      string `json:"id"`
			Expires string `json:"expires"`
		} `json:"token"`
		ServiceCatalog []struct {
			Endpoints []struct {
				AdminURL  string `json:"adminURL"`
				PublicURL string `json:"publicURL"`
			} `json:"endpoints"`
		} `json:"serviceCatalog"`
	} `json:"access"`
}

// Connect authenticates against the auth URL and replaces the session. On
// failure the previous session is kept and a *ConnectionError is returned.
func (c *Connection) Connect(ctx context.Context) (*Connection, error) {
	body, err := json.Marshal(authRequest{Auth: authBody{
		TenantName: c.creds.TenantName,
		PasswordCredentials: passwordCredentials{
			Username: c.creds.Username,
			Password: c.creds.Password,
		},
	}})
	if err != nil {
		return c, &ConnectionError{Err: fmt.Errorf("encode auth request: %w", err)}
	}

	resp, err := c.transport.Do(ctx, &Request{
		Method: "POST",
		URL:    c.creds.AuthURL,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		Body: body,
	})
	if err != nil {
		return c, &ConnectionError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c, &ConnectionError{Err: fmt.Errorf("auth: unexpected status %d", resp.StatusCode)}
	}

	s, err := parseSession(resp.Body, c.creds.Bucket)
	if err != nil {
		return c, &ConnectionError{Err: err}
	}
	c.session.Store(s)

	c.log.WithField("token_id", s.TokenID).Info("Connected")
	return c, nil
}

func parseSession(data []byte, bucket string) (*Session, error) {
	var ar authResponse
	if err := json.Unmarshal(data, &ar); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	if ar.Access == nil {
		return nil, fmt.Errorf("%w: access", errMissingField)
	}
	if ar.Access.Token == nil || ar.Access.Token.ID == "" {
		return nil, fmt.Errorf("%w: access.token.id", errMissingField)
	}
	if ar.Access.Token.Expires == "" {
		return nil, fmt.Errorf("%w: access.token.expires", errMissingField)
	}
	expires, err := ParseExpires(ar.Access.Token.Expires)
	if err != nil {
		return nil, err
	}
	if len(ar.Access.ServiceCatalog) == 0 || len(ar.Access.ServiceCatalog[0].Endpoints) == 0 {
		return nil, errEmptyCatalog
	}
	ep := ar.Access.ServiceCatalog[0].Endpoints[0]
	if ep.AdminURL == "" {
		return nil, fmt.Errorf("%w: adminURL", errMissingField)
	}
	return &Session{
		TokenID:   ar.Access.Token.ID,
		ExpiresAt: expires,
		AdminURL:  ep.AdminURL,
		UploadURL: ep.AdminURL + "/" + bucket,
		PublicURL: ep.PublicURL,
	}, nil
}

var expiresLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// ParseExpires parses a token expiry timestamp. Timestamps without a zone are
// taken as UTC.
func ParseExpires(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range expiresLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse token expiry %q: unsupported format", s)
}
