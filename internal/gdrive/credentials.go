package gdrive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

var ErrMissingToken = errors.New("oauth client credentials need a stored token")

// credentialOptions accepts either a service-account (or authorized_user)
// key, or an OAuth "installed"/"web" client paired with a stored token.
func credentialOptions(ctx context.Context, credsJSON, tokenJSON []byte) ([]option.ClientOption, error) {
	if len(credsJSON) == 0 {
		return nil, ErrNotConfigured
	}

	var probe struct {
		Type      string          `json:"type"`
		Installed json.RawMessage `json:"installed"`
		Web       json.RawMessage `json:"web"`
	}
	if err := json.Unmarshal(credsJSON, &probe); err != nil {
		return nil, fmt.Errorf("malformed credentials: %w", err)
	}

	if probe.Type != "" {
		creds, err := google.CredentialsFromJSON(ctx, credsJSON, drive.DriveScope)
		if err != nil {
			return nil, fmt.Errorf("load %s credentials: %w", probe.Type, err)
		}
		return []option.ClientOption{option.WithCredentials(creds)}, nil
	}

	if len(probe.Installed) == 0 && len(probe.Web) == 0 {
		return nil, fmt.Errorf("malformed credentials: no type, installed or web section")
	}
	if len(tokenJSON) == 0 {
		return nil, ErrMissingToken
	}

	conf, err := google.ConfigFromJSON(credsJSON, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("load oauth client: %w", err)
	}
	tok, err := parseToken(tokenJSON)
	if err != nil {
		return nil, err
	}
	return []option.ClientOption{option.WithTokenSource(conf.TokenSource(ctx, tok))}, nil
}

// parseToken also understands the expiry_date (epoch millis) field that
// Node OAuth clients write.
func parseToken(data []byte) (*oauth2.Token, error) {
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("malformed token: %w", err)
	}
	var extra struct {
		ExpiryDate int64 `json:"expiry_date"`
	}
	if err := json.Unmarshal(data, &extra); err == nil && extra.ExpiryDate > 0 && tok.Expiry.IsZero() {
		tok.Expiry = time.UnixMilli(extra.ExpiryDate)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, fmt.Errorf("malformed token: no access or refresh token")
	}
	return &tok, nil
}
