package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/paracurve/claimdesk/internal/domain"
)

// PolicyUpload is the payload for publishing a policy document.
type PolicyUpload struct {
	Title       string
	Description string
	FileName    string
	Content     io.Reader
}

// ListPolicies returns the tenant's policy documents.
func (c *Client) ListPolicies(ctx context.Context) ([]domain.Policy, error) {
	var out []domain.Policy
	if err := c.get(ctx, "/policies/", nil, &out); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// UploadPolicy sends a policy document as multipart form data. Uploads are
// mutations and never retry; a failed upload must be re-initiated by the
// user.
func (c *Client) UploadPolicy(ctx context.Context, in PolicyUpload) (*domain.Policy, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("title", in.Title); err != nil {
		return nil, fmt.Errorf("encode upload form: %w", err)
	}
	if in.Description != "" {
		if err := w.WriteField("description", in.Description); err != nil {
			return nil, fmt.Errorf("encode upload form: %w", err)
		}
	}
	part, err := w.CreateFormFile("file", in.FileName)
	if err != nil {
		return nil, fmt.Errorf("encode upload form: %w", err)
	}
	if _, err := io.Copy(part, in.Content); err != nil {
		return nil, fmt.Errorf("read upload content: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finish upload form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/policies/upload", nil, &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var out domain.Policy
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApprovePolicy marks a policy document as approved.
func (c *Client) ApprovePolicy(ctx context.Context, id string) (*domain.Policy, error) {
	var out domain.Policy
	if err := c.post(ctx, "/policies/"+id+"/approve", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
