package records

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/csd4487/vedema/internal/config"
	"github.com/csd4487/vedema/internal/domain/models"
)

// Client exposes the records-service operations used by the application.
type Client interface {
	LoadUser(ctx context.Context, email string) (models.User, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a records API client using the provided configuration values.
func NewClient(cfg config.RecordsAPIConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second)

	if cfg.Token != "" {
		restyClient.SetAuthToken(cfg.Token)
	}

	return &APIClient{httpClient: restyClient}
}

// apiError represents a records-service error payload.
type apiError struct {
	Message string `json:"message"`
}

// LoadUser fetches the full record snapshot of one user.
func (c *APIClient) LoadUser(ctx context.Context, email string) (models.User, error) {
	result := new(models.User)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Get(fmt.Sprintf("/users/%s/records", url.PathEscape(email)))
	if err != nil {
		return models.User{}, fmt.Errorf("fetch user records: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return models.User{}, models.ErrUserNotFound
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return models.User{}, fmt.Errorf("records api error: code=%d, message=%s", resp.StatusCode(), apiErr.Message)
	}

	if result.Email == "" {
		result.Email = email
	}

	return *result, nil
}
