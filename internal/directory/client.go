package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/google/uuid"
)

// UserLookup resolves users from the external user directory
type UserLookup interface {
	// GetUserByID returns the directory record for a user, or (nil, nil)
	// when the directory does not know the id
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Client is an HTTP client for the user directory service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a directory client for the given base URL
// (e.g. https://auth.internal/api/auth/users)
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetUserByID fetches GET {baseURL}/{id}. A 404 is not an error: the user is
// simply unknown to the directory.
func (c *Client) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.baseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("build user lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user lookup: unexpected status %d", resp.StatusCode)
	}

	var user domain.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

var _ UserLookup = (*Client)(nil)

// Disabled is a UserLookup for deployments without a user directory. Every
// user is unknown, so notifications are skipped.
type Disabled struct{}

func (Disabled) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, nil
}

var _ UserLookup = Disabled{}
