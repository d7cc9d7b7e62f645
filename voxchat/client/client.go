// Package client talks to a voxchat server over its HTTP API.
package client

import (
	"context"
	"fmt"
	"time"

	"voxchat/voxchat/sources/psql/models"
	"voxchat/voxchat/types"

	"github.com/go-resty/resty/v2"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server answered %d", e.Status)
	}
	return fmt.Sprintf("server answered %d: %s", e.Status, e.Message)
}

type Client struct {
	http  *resty.Client
	token string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

func (c *Client) Token() string { return c.token }

func (c *Client) SetToken(token string) { c.token = token }

// Register creates an account and keeps the returned token.
func (c *Client) Register(ctx context.Context, email, password string, name *string) error {
	var out types.TokenResponse
	req := types.RegisterRequest{Email: email, Password: password, Name: name}
	if err := c.post(ctx, "/api/register", req, &out); err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

// Login exchanges credentials for a token and keeps it.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out types.TokenResponse
	if err := c.post(ctx, "/api/login", types.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

func (c *Client) Chat(ctx context.Context, prompt string) (string, error) {
	var out types.ChatResponse
	if err := c.post(ctx, "/api/chat", types.ChatRequest{Prompt: prompt}, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

func (c *Client) Messages(ctx context.Context) ([]models.Message, error) {
	var out types.MessagesResponse
	var apiErr types.ErrorResponse
	resp, err := c.request(ctx).SetResult(&out).SetError(&apiErr).Get("/api/messages")
	if err := check(resp, err, apiErr); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var apiErr types.ErrorResponse
	resp, err := c.request(ctx).SetBody(body).SetResult(out).SetError(&apiErr).Post(path)
	return check(resp, err, apiErr)
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if c.token != "" {
		req.SetAuthToken(c.token)
	}
	return req
}

func check(resp *resty.Response, err error, apiErr types.ErrorResponse) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &APIError{Status: resp.StatusCode(), Message: apiErr.Error}
	}
	return nil
}
