package aspy

import (
	"context"
	"net/url"
)

// Login authenticates against /users/{username}/login and returns the session
// to use on subsequent calls. The password travels as a form-encoded body with
// no session header: login is the one request the backend accepts
// unauthenticated. The full response is retained on the session as the
// connection record.
//
// On any failure the diagnostic is logged, the typed error is returned, and
// the session is nil; there is no partial state to clean up.
func (c *Client) Login(ctx context.Context) (*Session, error) {
	path := "/users/" + url.PathEscape(c.username) + "/login"

	rec, err := c.Post(ctx, nil, path, url.Values{"password": {c.password}})
	if err != nil {
		c.logger.Error().Err(err).Str("username", c.username).Msg("couldn't authenticate")
		return nil, err
	}

	token := rec.Get("session").String()
	if token == "" {
		c.logger.Error().Str("username", c.username).Msg("login response carries no session token")
		return nil, ErrMalformedResponse.Msg("login response carries no session token")
	}

	return &Session{Token: token, Record: rec}, nil
}
