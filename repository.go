package aspy

import (
	"context"
)

// repositoryRequest is the wire shape for repository creation. A repository
// here is the backend's top-level archival collection container, not a
// source-code repository.
type repositoryRequest struct {
	JSONModelType string `json:"jsonmodel_type"`
	RepoCode      string `json:"repo_code"`
	Name          string `json:"name"`
}

// CreateRepository creates a repository with the given code and display name
// and returns the created record. The record's uri field holds the new
// repository's path.
func (c *Client) CreateRepository(ctx context.Context, sess *Session, code, name string) (Record, error) {
	if sess == nil || sess.Token == "" {
		return nil, ErrNotAuthenticated
	}

	return c.Post(ctx, sess, "/repositories", repositoryRequest{
		JSONModelType: "repository",
		RepoCode:      code,
		Name:          name,
	})
}
