package aspy

import (
	"github.com/tidwall/gjson"
)

// Session is the credential issued by a successful Login. It is threaded
// explicitly into authenticated calls rather than held as client state.
// There is no logout: a session stays valid until the server expires it.
type Session struct {
	// Token is the opaque session token the server expects on the
	// X-ArchivesSpace-Session header of every authenticated request.
	Token string

	// Record is the raw login response, retained verbatim for inspection.
	Record Record
}

// Username reads the authenticated user's name from the connection record.
func (s *Session) Username() string {
	return s.Record.Get("user.username").String()
}

// Record is a raw JSON document returned by the backend. It is kept as bytes
// rather than decoded into structs; the backend's record shapes are large and
// the client only ever reads a handful of fields out of them.
type Record []byte

// Get reads the value at path from the document, in gjson path syntax.
func (r Record) Get(path string) gjson.Result {
	return gjson.GetBytes(r, path)
}

// String returns the document text.
func (r Record) String() string {
	return string(r)
}
