package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPProvider talks to the identity provider's REST API.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// HTTPProviderOption configures an HTTPProvider.
type HTTPProviderOption func(*HTTPProvider)

// WithHTTPClient overrides the underlying client, mainly for tests.
func WithHTTPClient(client *http.Client) HTTPProviderOption {
	return func(p *HTTPProvider) {
		if client != nil {
			p.client = client
		}
	}
}

func NewHTTPProvider(baseURL string, opts ...HTTPProviderOption) *HTTPProvider {
	p := &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type createIdentityRequest struct {
	Email          string `json:"email"`
	TempCredential string `json:"temp_credential"`
	FullName       string `json:"full_name"`
	Role           string `json:"role"`
}

type createIdentityResponse struct {
	IdentityID string `json:"identity_id"`
}

func (p *HTTPProvider) CreateIdentity(ctx context.Context, email, tempCredential string, meta Metadata) (string, error) {
	body, err := json.Marshal(createIdentityRequest{
		Email:          email,
		TempCredential: tempCredential,
		FullName:       meta.FullName,
		Role:           meta.Role,
	})
	if err != nil {
		return "", fmt.Errorf("marshal create identity request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/identities", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build create identity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("create identity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("create identity: provider returned %d", resp.StatusCode)
	}

	var out createIdentityResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode create identity response: %w", err)
	}
	if out.IdentityID == "" {
		return "", fmt.Errorf("create identity: provider returned empty identity id")
	}
	return out.IdentityID, nil
}

func (p *HTTPProvider) DeleteIdentity(ctx context.Context, identityID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		p.baseURL+"/identities/"+url.PathEscape(identityID), nil)
	if err != nil {
		return fmt.Errorf("build delete identity request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	defer resp.Body.Close()

	// 404 counts as deleted: compensation must be idempotent under retry.
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK &&
		resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete identity: provider returned %d", resp.StatusCode)
	}
	return nil
}
