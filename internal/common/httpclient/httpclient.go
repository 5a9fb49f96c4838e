// Package httpclient implements the HTTP transport for the ArchivesSpace
// backend API. It dispatches POST requests against a configured server,
// attaches the session token header on authenticated calls, and classifies
// response statuses into the client's error taxonomy. Every failure branch
// logs an actionable diagnostic and returns a typed error the caller can
// match with errors.Is.
package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/SmithCollegeLibraries/aspy/internal/common/apperrors"
	"github.com/SmithCollegeLibraries/aspy/internal/common/logtrace"
)

// SessionTokenHeader carries the session token on authenticated requests.
const SessionTokenHeader = "X-ArchivesSpace-Session"

// Error taxonomy for the transport. Each non-200 status bucket maps to one
// sentinel; derived errors keep errors.Is identity with these.
var (
	// ErrConnectionFailed indicates the host could not be reached at all.
	ErrConnectionFailed = apperrors.New("unable to connect to ArchivesSpace: check the host information").SetStatusCode(http.StatusServiceUnavailable)

	// ErrAuthorizationDenied indicates the server returned 403.
	ErrAuthorizationDenied = apperrors.New("forbidden: check your credentials").SetStatusCode(http.StatusForbidden)

	// ErrBadRequest indicates the server returned 400.
	ErrBadRequest = apperrors.New("bad request rejected by ArchivesSpace").SetStatusCode(http.StatusBadRequest)

	// ErrUnexpectedStatus indicates any other non-200 status. Errors derived
	// from it carry the actual status code.
	ErrUnexpectedStatus = apperrors.New("unexpected response status from ArchivesSpace")
)

// Configurator provides the server location for request dispatch.
// The URL is used verbatim; the transport performs no normalization.
type Configurator interface {
	GetServerURL() string
}

// RequestOptions describes a single POST request. Exactly one of JSONBody and
// FormData should be set: FormData is the pre-authentication special case the
// backend expects for login, JSONBody is everything else. Token, when present,
// rides the session header.
type RequestOptions struct {
	Path     string            // endpoint path, appended verbatim to the server URL
	Token    string            // session token; empty for unauthenticated requests
	JSONBody []byte            // serialized JSON request body
	FormData url.Values        // form-encoded request body (login only)
	Header   map[string]string // optional extra headers
}

// HTTPClient dispatches requests to a live ArchivesSpace server.
type HTTPClient struct {
	config     Configurator
	httpClient *http.Client
	logger     zerolog.Logger
}

// ClientOptions contains options for configuring the HTTP client.
type ClientOptions struct {
	HTTPClient *http.Client    // replaces the default http.Client
	Logger     *zerolog.Logger // replaces the global logger
}

// NewClient creates a transport for the server described by config.
func NewClient(config Configurator, opts ...ClientOptions) *HTTPClient {
	c := &HTTPClient{
		config:     config,
		httpClient: &http.Client{},
		logger:     log.Logger,
	}
	if len(opts) > 0 {
		if opts[0].HTTPClient != nil {
			c.httpClient = opts[0].HTTPClient
		}
		if opts[0].Logger != nil {
			c.logger = *opts[0].Logger
		}
	}
	return c
}

// DoPost sends a POST request with the given options and returns the raw
// response body on a 200 status. Any other outcome is logged and returned as
// one of the taxonomy errors. The target URL is the configured server URL plus
// the request path, concatenated without normalization.
func (c *HTTPClient) DoPost(ctx context.Context, opts RequestOptions) ([]byte, apperrors.Error) {
	req, logger, aerr := buildRequest(ctx, c.logger, c.config, opts)
	if aerr != nil {
		return nil, aerr
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("unable to connect to ArchivesSpace, check the host information")
		return nil, ErrConnectionFailed.Err(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error().Err(err).Msg("unable to read response body")
		return nil, ErrConnectionFailed.MsgErr("unable to read response body", err)
	}

	return classify(logger, resp.StatusCode, body)
}

// buildRequest assembles the http.Request and the request-scoped logger shared
// by the live and in-process transports.
func buildRequest(ctx context.Context, base zerolog.Logger, config Configurator, opts RequestOptions) (*http.Request, zerolog.Logger, apperrors.Error) {
	target := config.GetServerURL() + opts.Path

	var body io.Reader
	contentType := "application/json"
	if opts.FormData != nil {
		body = strings.NewReader(opts.FormData.Encode())
		contentType = "application/x-www-form-urlencoded"
	} else if opts.JSONBody != nil {
		body = bytes.NewReader(opts.JSONBody)
	}

	requestId := logtrace.RequestIdFromContext(ctx)
	if requestId == "" {
		requestId = uuid.NewString()
	}
	logger := base.With().Str("requestId", requestId).Str("path", opts.Path).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		logger.Error().Err(err).Str("url", target).Msg("unable to build request")
		return nil, logger, ErrConnectionFailed.MsgErr("unable to build request for "+target, err)
	}
	req.Header.Set("Content-Type", contentType)
	if opts.Token != "" {
		req.Header.Set(SessionTokenHeader, opts.Token)
	}
	for k, v := range opts.Header {
		req.Header.Set(k, v)
	}
	return req, logger, nil
}

// classify maps a response status onto the error taxonomy. 200 returns the
// body untouched; everything else logs the diagnostic and returns the typed
// error carrying the server's message.
func classify(logger zerolog.Logger, status int, body []byte) ([]byte, apperrors.Error) {
	switch status {
	case http.StatusOK:
		return body, nil
	case http.StatusForbidden:
		logger.Error().Str("response", string(body)).Msg("forbidden, check your credentials")
		return nil, ErrAuthorizationDenied.Msg(serverMessage(body, "forbidden: check your credentials"))
	case http.StatusBadRequest:
		logger.Error().Str("response", string(body)).Msg("bad request rejected by server")
		return nil, ErrBadRequest.Msg(serverMessage(body, "bad request rejected by ArchivesSpace"))
	default:
		logger.Error().Int("status", status).Str("response", string(body)).Msg("unexpected response status")
		return nil, ErrUnexpectedStatus.New(serverMessage(body, "unexpected status "+strconv.Itoa(status))).SetStatusCode(status)
	}
}

// serverMessage pulls the error field out of an ArchivesSpace error document,
// falling back to the given message when the body carries none.
func serverMessage(body []byte, fallback string) string {
	if msg := gjson.GetBytes(body, "error").String(); msg != "" {
		return msg
	}
	return fallback
}
