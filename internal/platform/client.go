// Package platform talks to the host platform that embeds this directory:
// user records, access checks, member listings, payments, and chat/forum
// delivery. Tokens are verified upstream; this client only carries the
// service credentials.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"directory-service/internal/config"
	"directory-service/internal/models"
)

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatarUrl"`
}

type Access struct {
	HasAccess   bool               `json:"hasAccess"`
	AccessLevel models.AccessLevel `json:"accessLevel"`
}

type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type TransferInput struct {
	AmountCents    int    `json:"amount"`
	Currency       string `json:"currency"`
	DestinationID  string `json:"destinationId"`
	IdempotenceKey string `json:"idempotenceKey"`
}

type ChargeInput struct {
	AmountCents  int            `json:"amount"`
	Currency     string         `json:"currency"`
	UserID       string         `json:"userId"`
	ExperienceID string         `json:"experienceId"`
	ReturnURL    string         `json:"returnUrl,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

type CheckoutSession struct {
	PurchaseURL string `json:"purchaseUrl"`
	PlanID      string `json:"planId"`
}

type Client struct {
	baseURL     string
	apiKey      string
	agentUserID string
	httpClient  *http.Client
}

func NewClient(cfg config.PlatformConfig) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		agentUserID: cfg.AgentUserID,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.agentUserID != "" {
		req.Header.Set("x-on-behalf-of", c.agentUserID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("platform request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("platform returned %d for %s %s: %s", resp.StatusCode, method, path, data)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode platform response: %w", err)
	}
	return nil
}

// GetUser fetches the platform user record used to default a new profile.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/v5/users/"+userID, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CheckAccess asks the platform what access the user has to the experience.
func (c *Client) CheckAccess(ctx context.Context, userID, experienceID string) (*Access, error) {
	var access Access
	path := fmt.Sprintf("/v5/experiences/%s/access/%s", experienceID, userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &access); err != nil {
		return nil, err
	}
	return &access, nil
}

// ListMembers returns the members of an experience for the admin sync flow.
func (c *Client) ListMembers(ctx context.Context, experienceID string) ([]Member, error) {
	var result struct {
		Members []Member `json:"members"`
	}
	path := fmt.Sprintf("/v5/experiences/%s/members", experienceID)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Members, nil
}

// TransferFunds moves money to the destination ledger account. The
// idempotence key makes retried transfers a no-op on the platform side.
func (c *Client) TransferFunds(ctx context.Context, input TransferInput) error {
	return c.do(ctx, http.MethodPost, "/v5/payments/transfers", input, nil)
}

// ChargeUser creates a checkout session for the premium upgrade.
func (c *Client) ChargeUser(ctx context.Context, input ChargeInput) (*CheckoutSession, error) {
	var session CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/v5/payments/charges", input, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SendChatMessage posts into the experience's introductions chat feed.
func (c *Client) SendChatMessage(ctx context.Context, experienceID, message string) error {
	body := map[string]string{"message": message}
	path := fmt.Sprintf("/v5/experiences/%s/chat/messages", experienceID)
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// CreateForumPost publishes an introduction post in the experience's forum.
func (c *Client) CreateForumPost(ctx context.Context, experienceID, title, content string) error {
	body := map[string]string{"title": title, "content": content}
	path := fmt.Sprintf("/v5/experiences/%s/forum/posts", experienceID)
	return c.do(ctx, http.MethodPost, path, body, nil)
}
