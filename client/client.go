// Package client is the Go counterpart of the browser front-end's API
// service: it talks to the CRUD gateway and orchestrates direct-to-
// storage uploads with progress reporting.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"vidshare-site/videos"
)

// TokenProvider supplies the bearer token attached to API requests.
// Passing it in explicitly keeps credentials out of global state.
type TokenProvider interface {
	Token() (string, error)
}

// StaticToken is a TokenProvider for a fixed token.
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenProvider
}

func New(baseURL string, tokens TokenProvider) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: http.DefaultClient,
		Tokens:     tokens,
	}
}

// VideoList is the gateway's list response.
type VideoList struct {
	Videos  []videos.Record `json:"videos"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	HasMore bool            `json:"hasMore"`
}

// Videos fetches a page of active videos, optionally filtered by a
// search term.
func (c *Client) Videos(ctx context.Context, search string, page, limit int) (*VideoList, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	if search != "" {
		params.Set("search", search)
	}

	var list VideoList
	if err := c.do(ctx, http.MethodGet, "/videos?"+params.Encode(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) Video(ctx context.Context, id string) (*videos.Record, error) {
	var rec videos.Record
	if err := c.do(ctx, http.MethodGet, "/videos/"+id, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) TrackView(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/videos/"+id+"/view", map[string]any{}, nil)
}

// SignedUpload is the signed-url endpoint's response.
type SignedUpload struct {
	UploadURL string `json:"uploadUrl"`
	VideoID   string `json:"videoId"`
	S3Key     string `json:"s3Key"`
}

// SignedUploadURL requests an upload URL for the named file. The
// gateway also creates the uploading placeholder record, so the video
// id is known before any bytes move.
func (c *Client) SignedUploadURL(ctx context.Context, fileName, fileType string) (*SignedUpload, error) {
	var signed SignedUpload
	err := c.do(ctx, http.MethodPost, "/upload/signed-url", map[string]string{
		"fileName": fileName,
		"fileType": fileType,
	}, &signed)
	if err != nil {
		return nil, err
	}
	return &signed, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.authorize(req); err != nil {
		return err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&envelope) == nil && envelope.Error != "" {
			if envelope.Message != "" {
				return fmt.Errorf("%s %s: %s: %s", method, path, envelope.Error, envelope.Message)
			}
			return fmt.Errorf("%s %s: %s", method, path, envelope.Error)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) authorize(req *http.Request) error {
	if c.Tokens == nil {
		return nil
	}
	token, err := c.Tokens.Token()
	if err != nil {
		return fmt.Errorf("failed to obtain auth token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
