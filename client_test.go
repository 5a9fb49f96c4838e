package aspy

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/SmithCollegeLibraries/aspy/internal/common/apperrors"
	"github.com/SmithCollegeLibraries/aspy/internal/common/httpclient"
	"github.com/SmithCollegeLibraries/aspy/internal/common/logtrace"
)

func TestHost(t *testing.T) {
	tests := []struct {
		protocol string
		host     string
		port     int
		want     string
	}{
		{"http", "localhost", 8089, "http://localhost:8089"},
		{"https", "aspace.example.edu", 443, "https://aspace.example.edu:443"},
		{"http", "10.0.0.5", 80, "http://10.0.0.5:80"},
		// No validation or normalization happens; garbage goes through verbatim.
		{"gopher", "not a host", 0, "gopher://not a host:0"},
	}
	for _, tt := range tests {
		c := New(tt.protocol, tt.host, tt.port, "admin", "admin")
		assert.Equal(t, tt.want, c.Host())
	}
}

func TestPostWithSessionSendsJSONAndToken(t *testing.T) {
	var got *http.Request
	var gotBody []byte
	_, client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"status":"Created"}`))
	}))

	sess := &Session{Token: "abc123"}
	rec, err := client.Post(context.Background(), sess, "/things", map[string]any{"answer": 42})
	require.NoError(t, err)
	assert.Equal(t, "Created", rec.Get("status").String())

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/things", got.URL.Path)
	assert.Equal(t, "abc123", got.Header.Get("X-ArchivesSpace-Session"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, int64(42), gjson.GetBytes(gotBody, "answer").Int())
}

func TestPostWithoutSessionSendsFormData(t *testing.T) {
	var got *http.Request
	var gotBody []byte
	_, client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{}`))
	}))

	_, err := client.Post(context.Background(), nil, "/users/admin/login", url.Values{"password": {"s3cret"}})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "application/x-www-form-urlencoded", got.Header.Get("Content-Type"))
	assert.Empty(t, got.Header.Get("X-ArchivesSpace-Session"))
	assert.Equal(t, "password=s3cret", string(gotBody))
}

func TestPostWithoutSessionRejectsJSONPayload(t *testing.T) {
	requests := 0
	_, client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	// A struct payload without a session means the caller skipped Login.
	// It must never be sent unauthenticated.
	rec, err := client.Post(context.Background(), nil, "/repositories", repositoryRequest{})
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, requests)
}

func TestPostConnectionFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	client := clientFor(t, ts, "admin", "admin")
	ts.Close()

	rec, err := client.Post(context.Background(), &Session{Token: "abc123"}, "/things", map[string]any{})
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrConnectionFailed)
}

func TestPostRejectsUnencodablePayload(t *testing.T) {
	requests := 0
	_, client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	rec, err := client.Post(context.Background(), &Session{Token: "abc123"}, "/things", make(chan int))
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.Zero(t, requests)
}

func TestPostLogsDiagnostics(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"Login failed"}`))
	}))
	t.Cleanup(ts.Close)

	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	var buf bytes.Buffer
	client := New(u.Scheme, u.Hostname(), port, "admin", "admin",
		WithLogger(logtrace.NewLogger(&buf)))

	_, err = client.Post(context.Background(), &Session{Token: "abc123"}, "/things", map[string]any{})
	assert.ErrorIs(t, err, ErrAuthorizationDenied)

	// The typed error is accompanied by the structured diagnostic.
	out := buf.String()
	assert.Contains(t, out, "forbidden, check your credentials")
	assert.Contains(t, out, `"path":"/things"`)
	assert.Contains(t, out, `"time":`)
}

func TestWithTransport(t *testing.T) {
	// The in-process transport dispatches against an http.Handler with no
	// network, sharing request building and classification with the live one.
	transport := httpclient.NewTestClient(serverConfig{"http://aspace.test:8089"},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"Login failed"}`))
		}))
	client := New("http", "aspace.test", 8089, "admin", "admin", WithTransport(transport))

	sess, err := client.Login(context.Background())
	assert.Nil(t, sess)
	assert.ErrorIs(t, err, ErrAuthorizationDenied)
}

func TestPostUnexpectedStatus(t *testing.T) {
	_, client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"upstream fell over"}`))
	}))

	rec, err := client.Post(context.Background(), &Session{Token: "abc123"}, "/things", map[string]any{})
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)

	var aerr apperrors.Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, http.StatusBadGateway, aerr.StatusCode())
	assert.Equal(t, "upstream fell over", aerr.Error())
}
