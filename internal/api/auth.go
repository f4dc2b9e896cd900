package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Credential is an immutable set of header key/value pairs attached to
// every authenticated call.
type Credential map[string]string

// Authenticator obtains a provider credential by calling a login
// endpoint.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (Credential, error)
}

// SessionAuth authenticates via the session-key login endpoint. The
// resulting credential is a user_key/Session_key header pair.
type SessionAuth struct {
	client *Client
}

// NewSessionAuth creates a session-mode authenticator.
func NewSessionAuth(client *Client) *SessionAuth {
	return &SessionAuth{client: client}
}

// Login calls GET /login and splits the user_key;session_key body.
func (a *SessionAuth) Login(ctx context.Context, username, password string) (Credential, error) {
	return login(ctx, a.client, "/login", "Session_key", username, password)
}

// TokenAuth authenticates via the access-token login endpoint. The
// resulting credential is a user_key/Access_token header pair.
type TokenAuth struct {
	client *Client
}

// NewTokenAuth creates a token-mode authenticator.
func NewTokenAuth(client *Client) *TokenAuth {
	return &TokenAuth{client: client}
}

// Login calls GET /token and splits the user_key;access_token body.
func (a *TokenAuth) Login(ctx context.Context, username, password string) (Credential, error) {
	return login(ctx, a.client, "/token", "Access_token", username, password)
}

// login implements the shared login shape: credentials as query
// parameters, a 200 body of the form "userKey;secret", 404 for bad
// credentials, anything else an unrecognized provider response.
func login(ctx context.Context, client *Client, path, secretKey, username, password string) (Credential, error) {
	query := url.Values{}
	query.Set("username", username)
	query.Set("password", password)

	status, body, err := client.get(ctx, path+"?"+query.Encode())
	if err != nil {
		return nil, err
	}

	switch status {
	case 200:
		parts := strings.SplitN(strings.TrimSpace(body), ";", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("malformed login response: %w", &Error{StatusCode: status, Body: body})
		}
		return Credential{
			"user_key": parts[0],
			secretKey:  parts[1],
		}, nil
	case 404:
		return nil, ErrBadCredentials
	default:
		return nil, &Error{StatusCode: status, Body: body}
	}
}
