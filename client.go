// Package aspy is a minimal Go client for the ArchivesSpace backend API.
// It establishes an authenticated session against /users/{username}/login and
// issues JSON POST requests for repository and subject creation.
//
// Sessions are explicit values: Login returns a *Session which the caller
// threads into every authenticated call. A failed login therefore can never
// leave the client silently issuing unauthenticated requests. Every failure
// path returns a typed error matchable with errors.Is, in addition to a
// structured log line.
//
//	client := aspy.New("http", "localhost", 8089, "admin", "admin")
//	sess, err := client.Login(ctx)
//	if err != nil {
//		return err
//	}
//	repo, err := client.CreateRepository(ctx, sess, "FOOBAR5", "Test repository")
package aspy

import (
	"context"
	gojson "encoding/json"
	"fmt"
	"net/http"
	"net/url"

	jsonitor "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SmithCollegeLibraries/aspy/internal/common/httpclient"
)

var json = jsonitor.ConfigCompatibleWithStandardLibrary

// Client holds the connection parameters for one ArchivesSpace backend.
// It is immutable after construction and performs no I/O until a request
// method is called. Parameters are not validated up front: a bad host or port
// surfaces as ErrConnectionFailed on first use.
type Client struct {
	protocol string
	host     string
	port     int
	username string
	password string

	httpClient *http.Client
	logger     zerolog.Logger
	transport  httpclient.RequestDoer
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client, for custom transports
// or timeouts. The client itself sets no deadline; use the request context or
// the http.Client timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger replaces the global logger for this client's diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTransport replaces the whole transport layer. Used by in-process tests
// to dispatch requests against an http.Handler without a network.
func WithTransport(t httpclient.RequestDoer) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// New creates a client for the backend at "{protocol}://{host}:{port}",
// authenticating as username with password. Pure assignment; no connection is
// attempted until Login or Post is called.
func New(protocol, host string, port int, username, password string, opts ...Option) *Client {
	c := &Client{
		protocol: protocol,
		host:     host,
		port:     port,
		username: username,
		password: password,
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		topts := httpclient.ClientOptions{Logger: &c.logger}
		if c.httpClient != nil {
			topts.HTTPClient = c.httpClient
		}
		c.transport = httpclient.NewClient(c, topts)
	}
	return c
}

// Host returns the base URL of the configured backend, formatted exactly as
// "{protocol}://{host}:{port}" with no normalization.
func (c *Client) Host() string {
	return fmt.Sprintf("%s://%s:%d", c.protocol, c.host, c.port)
}

// GetServerURL implements httpclient.Configurator.
func (c *Client) GetServerURL() string {
	return c.Host()
}

// Post sends a POST request to path on the configured backend and returns the
// parsed response document. With a session, payload is serialized to JSON
// exactly once ([]byte and json.RawMessage pass through untouched) and the
// session token rides the X-ArchivesSpace-Session header. Without a session,
// payload must be form data (url.Values or map[string]string) and is sent
// form-encoded: the backend expects the login request as form data and
// everything after it as JSON text.
func (c *Client) Post(ctx context.Context, sess *Session, path string, payload any) (Record, error) {
	opts := httpclient.RequestOptions{Path: path}
	if sess != nil && sess.Token != "" {
		opts.Token = sess.Token
		body, err := marshalPayload(payload)
		if err != nil {
			return nil, err
		}
		opts.JSONBody = body
	} else {
		form, err := formPayload(payload)
		if err != nil {
			return nil, err
		}
		opts.FormData = form
	}

	body, aerr := c.transport.DoPost(ctx, opts)
	if aerr != nil {
		return nil, aerr
	}
	return Record(body), nil
}

// marshalPayload serializes payload for an authenticated request. Raw JSON
// passes through as-is so callers holding a pre-built document do not get it
// encoded a second time.
func marshalPayload(payload any) ([]byte, error) {
	switch v := payload.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case gojson.RawMessage:
		return []byte(v), nil
	default:
		body, err := json.Marshal(v)
		if err != nil {
			return nil, ErrInvalidPayload.Err(err)
		}
		return body, nil
	}
}

// formPayload coerces payload into form data for the unauthenticated branch.
// Anything else is refused: a JSON payload without a session means the caller
// skipped Login, and quietly sending it unauthenticated would hide that.
func formPayload(payload any) (url.Values, error) {
	switch v := payload.(type) {
	case url.Values:
		return v, nil
	case map[string]string:
		form := url.Values{}
		for k, val := range v {
			form.Set(k, val)
		}
		return form, nil
	default:
		return nil, ErrNotAuthenticated.Msg("POST without a session takes form data only: call Login first")
	}
}
