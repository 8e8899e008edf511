// Package telegram is a minimal Bot API client covering what the name
// rotator needs: identity, business account renames and long polling.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/noon-labs/namecycler/common"
)

const (
	methodGetMe                  = "getMe"
	methodGetUpdates             = "getUpdates"
	methodSetBusinessAccountName = "setBusinessAccountName"

	updateBusinessConnection = "business_connection"
)

type Client struct {
	token       string
	baseURL     string
	http        *http.Client
	raw         *http.Client
	pollTimeout time.Duration
	logger      common.Logger
}

func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, common.NewNamecyclerError("bot token cannot be empty", common.ErrTypeValidation, common.ErrMissingToken)
	}

	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	u, err := url.Parse(cfg.baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, common.NewNamecyclerError(fmt.Sprintf("invalid API URL %q", cfg.baseURL), common.ErrTypeValidation, err)
	}

	if cfg.httpClient == nil {
		cfg.httpClient = newHTTPClient(10)
	}
	if cfg.rawClient == nil {
		cfg.rawClient = newHTTPClient(1)
	}

	return &Client{
		token:       token,
		baseURL:     strings.TrimRight(cfg.baseURL, "/"),
		http:        cfg.httpClient,
		raw:         cfg.rawClient,
		pollTimeout: cfg.pollTimeout,
		logger:      cfg.logger,
	}, nil
}

func (c *Client) methodURL(method string) string {
	return c.baseURL + "/bot" + c.token + "/" + method
}

// post sends params as JSON and returns the raw reply. Transport errors
// are stripped of the request URL, which embeds the token.
func (c *Client) post(ctx context.Context, hc *http.Client, method string, params any) ([]byte, int, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, 0, common.NewNamecyclerError(fmt.Sprintf("encode %s params", method), common.ErrTypeValidation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bytes.NewReader(body))
	if err != nil {
		return nil, 0, common.NewNamecyclerError(fmt.Sprintf("build %s request", method), common.ErrTypeTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, 0, common.NewNamecyclerError(fmt.Sprintf("%s request failed", method), common.ErrTypeTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, common.NewNamecyclerError(fmt.Sprintf("read %s response", method), common.ErrTypeTransport, err)
	}
	return data, resp.StatusCode, nil
}

// call performs a structured Bot API call and decodes its result.
func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	data, status, err := c.post(ctx, c.http, method, params)
	if err != nil {
		return err
	}

	var env apiResponse
	if err := json.Unmarshal(data, &env); err != nil {
		return common.NewNamecyclerError(
			fmt.Sprintf("decode %s response (status %d)", method, status),
			common.ErrTypeDecode,
			err,
		)
	}

	if !env.OK {
		if env.ErrorCode == 0 {
			env.ErrorCode = status
		}
		return newAPIError(method, &env)
	}

	if result == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, result); err != nil {
		return common.NewNamecyclerError(fmt.Sprintf("decode %s result", method), common.ErrTypeDecode, err)
	}
	return nil
}

func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var user User
	if err := c.call(ctx, methodGetMe, struct{}{}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetBusinessAccountName renames the business account through the
// structured API.
func (c *Client) SetBusinessAccountName(ctx context.Context, params SetBusinessAccountNameParams) (bool, error) {
	var ok bool
	if err := c.call(ctx, methodSetBusinessAccountName, params, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// PostSetBusinessAccountName is the raw fallback for the rename call. It
// returns the reply body as-is, whatever the HTTP status.
func (c *Client) PostSetBusinessAccountName(ctx context.Context, connectionID, name string) ([]byte, error) {
	payload := map[string]string{
		"business_connection_id": connectionID,
		"first_name":             name,
		"name":                   name,
	}

	data, status, err := c.post(ctx, c.raw, methodSetBusinessAccountName, payload)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Raw API reply", "status", status, "body", string(data))
	return data, nil
}

// GetUpdates long-polls for business connection updates starting at offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout+pollRequestSlack)
	defer cancel()

	params := getUpdatesParams{
		Offset:         offset,
		Timeout:        int(c.pollTimeout / time.Second),
		AllowedUpdates: []string{updateBusinessConnection},
	}

	var updates []Update
	if err := c.call(ctx, methodGetUpdates, params, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// Close releases pooled connections of both transports.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
	c.raw.CloseIdleConnections()
}

// MaskedToken returns the token prefix that is safe to log.
func (c *Client) MaskedToken() string {
	return MaskToken(c.token)
}

func MaskToken(token string) string {
	const visible = 10
	if len(token) <= visible {
		return strings.Repeat("*", len(token))
	}
	return token[:visible] + "..."
}
