package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// tokenResponse is the B2C token endpoint reply. Only the id_token is used
// on subsequent requests.
type tokenResponse struct {
	IDToken string `json:"id_token"`
}

// Authenticate resolves a bearer id_token from the ERCOT B2C ROPC flow and
// stores it on the client. Call once before fetching; a 401/403 from the
// token endpoint (or a later data request) is an AuthError.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.username == "" || c.password == "" {
		return &AuthError{Message: "no credentials configured"}
	}

	q := url.Values{}
	q.Set("username", c.username)
	q.Set("password", c.password)
	q.Set("grant_type", "password")
	q.Set("scope", "openid "+c.clientID+" offline_access")
	q.Set("client_id", c.clientID)
	q.Set("response_type", "id_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create token request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read token response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{StatusCode: resp.StatusCode, Message: "credentials rejected by token endpoint"}
	case resp.StatusCode >= 400:
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode), Body: body}
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return &MalformedResponseError{Path: c.tokenURL, Err: err}
	}
	if tok.IDToken == "" {
		return &AuthError{StatusCode: resp.StatusCode, Message: "token endpoint returned no id_token"}
	}

	c.setToken(tok.IDToken)
	c.logger.Debug("authenticated against ercot b2c")
	return nil
}
