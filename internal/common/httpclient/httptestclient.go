package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SmithCollegeLibraries/aspy/internal/common/apperrors"
)

// TestHTTPClient dispatches requests directly to an http.Handler standing in
// for the ArchivesSpace server. It uses httptest.NewRecorder to capture
// responses without making network calls, while sharing request building and
// status classification with the live transport.
type TestHTTPClient struct {
	config  Configurator
	handler http.Handler
	logger  zerolog.Logger
}

// NewTestClient creates a transport that serves requests from handler.
func NewTestClient(config Configurator, handler http.Handler) *TestHTTPClient {
	return &TestHTTPClient{
		config:  config,
		handler: handler,
		logger:  log.Logger,
	}
}

// DoPost sends a POST request with the given options directly to the handler.
// Behavior matches HTTPClient.DoPost, minus the possibility of a transport
// failure.
func (c *TestHTTPClient) DoPost(ctx context.Context, opts RequestOptions) ([]byte, apperrors.Error) {
	req, logger, aerr := buildRequest(ctx, c.logger, c.config, opts)
	if aerr != nil {
		return nil, aerr
	}

	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)

	return classify(logger, rr.Code, rr.Body.Bytes())
}
