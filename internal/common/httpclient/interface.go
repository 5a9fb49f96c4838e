package httpclient

import (
	"context"

	"github.com/SmithCollegeLibraries/aspy/internal/common/apperrors"
)

// RequestDoer is the interface shared by the live and in-process transports.
// The client programs against it so tests can exercise the same request
// building and status classification without a network.
type RequestDoer interface {
	// DoPost sends a POST request with the given options.
	// Returns the raw response body on success.
	DoPost(ctx context.Context, opts RequestOptions) ([]byte, apperrors.Error)
}

// Verify that both transports implement RequestDoer.
var _ RequestDoer = &HTTPClient{}
var _ RequestDoer = &TestHTTPClient{}
