package upstream

import (
	"context"
	"errors"
	"net/http"

	"github.com/nhom-do-an/ocm-admin-sub002/internal/application/session"
	domain "github.com/nhom-do-an/ocm-admin-sub002/internal/domain/session"
)

const (
	loginPath        = "/auth/login"
	profilePath      = "/auth/me"
	checkStorePath   = "/stores/check"
	publicationsPath = "/channels/publications"
)

var (
	_ session.AuthClient    = (*Client)(nil)
	_ session.StoreClient   = (*Client)(nil)
	_ session.ChannelClient = (*Client)(nil)
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *domain.User `json:"user"`
}

// Login exchanges credentials for a token pair
func (c *Client) Login(ctx context.Context, caller session.Caller, credentials session.Credentials) (*session.TokenPair, error) {
	var resp loginResponse
	req := loginRequest{Email: credentials.Email, Password: credentials.Password}
	if err := c.do(ctx, http.MethodPost, loginPath, caller, req, &resp); err != nil {
		return nil, err
	}
	return &session.TokenPair{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
	}, nil
}

// GetProfile returns the user owning caller's access token
func (c *Client) GetProfile(ctx context.Context, caller session.Caller) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, profilePath, caller, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CheckStore fails unless a store resolves for caller's host
func (c *Client) CheckStore(ctx context.Context, caller session.Caller) error {
	return c.do(ctx, http.MethodGet, checkStorePath, caller, nil, nil)
}

// GetPublications lists the store's sales channel publications
func (c *Client) GetPublications(ctx context.Context, caller session.Caller) ([]domain.Publication, error) {
	var pubs []domain.Publication
	err := c.do(ctx, http.MethodGet, publicationsPath, caller, nil, &pubs)
	switch {
	case errors.Is(err, errNoData):
		return []domain.Publication{}, nil
	case err != nil:
		return nil, err
	}
	return pubs, nil
}
