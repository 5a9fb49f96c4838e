package aspy

import (
	"net/http"

	"github.com/SmithCollegeLibraries/aspy/internal/common/apperrors"
	"github.com/SmithCollegeLibraries/aspy/internal/common/httpclient"
)

// Transport- and status-level sentinels are defined by the transport layer
// and re-exported here so callers can match them with errors.Is without
// importing internal packages.
var (
	// ErrConnectionFailed indicates the host could not be reached.
	ErrConnectionFailed = httpclient.ErrConnectionFailed

	// ErrAuthorizationDenied indicates the server returned 403.
	ErrAuthorizationDenied = httpclient.ErrAuthorizationDenied

	// ErrBadRequest indicates the server returned 400.
	ErrBadRequest = httpclient.ErrBadRequest

	// ErrUnexpectedStatus indicates any other non-200 status.
	ErrUnexpectedStatus = httpclient.ErrUnexpectedStatus
)

var (
	// ErrNotAuthenticated flags an authenticated operation invoked without a
	// session. Requests are never quietly sent unauthenticated.
	ErrNotAuthenticated = apperrors.New("not authenticated: call Login first").SetStatusCode(http.StatusUnauthorized)

	// ErrMalformedResponse flags a 200 response missing a field the client
	// depends on, such as a login response without a session token.
	ErrMalformedResponse = apperrors.New("malformed response from ArchivesSpace")

	// ErrInvalidPayload flags a request payload that cannot be encoded.
	ErrInvalidPayload = apperrors.New("unable to encode request payload").SetStatusCode(http.StatusBadRequest)
)
