package aspy

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// newBackend starts a simulated ArchivesSpace server and returns it along
// with a client pointed at it, authenticating as admin/admin.
func newBackend(t *testing.T, handler http.Handler) (*httptest.Server, *Client) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts, clientFor(t, ts, "admin", "admin")
}

// clientFor builds a client from the server's URL pieces, since New takes the
// protocol, host and port separately.
func clientFor(t *testing.T, ts *httptest.Server, username, password string) *Client {
	t.Helper()
	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return New(u.Scheme, u.Hostname(), port, username, password)
}

// serverConfig satisfies httpclient.Configurator for in-process transports.
type serverConfig struct {
	url string
}

func (c serverConfig) GetServerURL() string {
	return c.url
}

// loginHandler serves a successful login for username and delegates every
// other request to next.
func loginHandler(t *testing.T, username, token string, next http.Handler) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/"+username+"/login" {
			w.Write([]byte(`{"session":"` + token + `","user":{"username":"` + username + `"}}`))
			return
		}
		if next != nil {
			next.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}
