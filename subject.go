package aspy

import (
	"context"
	gojson "encoding/json"

	"github.com/tidwall/sjson"
)

// defaultSubject is the stock subject record posted when no options are
// given. It is kept as a JSON document rather than a struct so options can
// rewrite individual fields without the client carrying the backend's full
// subject schema.
var defaultSubject = []byte(`{
	"jsonmodel_type": "subject",
	"external_ids": [],
	"publish": true,
	"used_within_repositories": [],
	"used_within_published_repositories": [],
	"terms": [
		{
			"jsonmodel_type": "term",
			"term": "Term 132",
			"term_type": "geographic",
			"vocabulary": "/vocabularies/156"
		}
	],
	"external_documents": [],
	"vocabulary": "/vocabularies/157",
	"authority_id": "http://www.example-596.com",
	"scope_note": "M911GA46",
	"source": "gmgpc"
}`)

// DefaultSubject returns a copy of the stock subject document.
func DefaultSubject() []byte {
	return append([]byte(nil), defaultSubject...)
}

// SubjectOption rewrites a field of the subject document before it is posted.
type SubjectOption func(doc []byte) ([]byte, error)

// WithSubjectField sets the value at an arbitrary sjson path on the document.
func WithSubjectField(path string, value any) SubjectOption {
	return func(doc []byte) ([]byte, error) {
		return sjson.SetBytes(doc, path, value)
	}
}

// WithTerm replaces the subject's single term.
func WithTerm(term, termType, vocabulary string) SubjectOption {
	return func(doc []byte) ([]byte, error) {
		doc, err := sjson.SetBytes(doc, "terms.0.term", term)
		if err != nil {
			return nil, err
		}
		doc, err = sjson.SetBytes(doc, "terms.0.term_type", termType)
		if err != nil {
			return nil, err
		}
		return sjson.SetBytes(doc, "terms.0.vocabulary", vocabulary)
	}
}

// WithVocabulary sets the subject's vocabulary URI.
func WithVocabulary(uri string) SubjectOption {
	return WithSubjectField("vocabulary", uri)
}

// WithSource sets the subject's source code, e.g. "gmgpc" or "lcsh".
func WithSource(source string) SubjectOption {
	return WithSubjectField("source", source)
}

// WithAuthorityID sets the subject's authority id.
func WithAuthorityID(id string) SubjectOption {
	return WithSubjectField("authority_id", id)
}

// WithScopeNote sets the subject's scope note.
func WithScopeNote(note string) SubjectOption {
	return WithSubjectField("scope_note", note)
}

// CreateSubject creates a controlled-vocabulary subject record from the stock
// document with opts applied, and returns the created record. The document is
// posted as-is: it is serialized exactly once, never re-encoded as a JSON
// string.
func (c *Client) CreateSubject(ctx context.Context, sess *Session, opts ...SubjectOption) (Record, error) {
	if sess == nil || sess.Token == "" {
		return nil, ErrNotAuthenticated
	}

	doc := DefaultSubject()
	var err error
	for _, opt := range opts {
		if doc, err = opt(doc); err != nil {
			return nil, ErrInvalidPayload.Err(err)
		}
	}

	return c.Post(ctx, sess, "/subjects", gojson.RawMessage(doc))
}
