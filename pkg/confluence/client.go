// Copyright 2025 The tempdocs authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package confluence is a minimal Confluence REST client covering the
// operations the publisher needs: finding pages by title, creating pages
// and updating them in storage representation.
package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/tempdocs/tempdocs/pkg/errors"
	"github.com/tempdocs/tempdocs/pkg/httpclient"
)

// Config configures the Confluence client.
type Config struct {
	// BaseURL is the Confluence instance root, e.g. https://example.atlassian.net/wiki.
	BaseURL string

	// Username and APIToken authenticate via basic auth.
	Username string
	APIToken string

	// HTTPClient overrides the default client; used by tests.
	HTTPClient *http.Client

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Page is a Confluence page reference.
type Page struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Version int    `json:"-"`
}

// Client talks to one Confluence instance.
type Client struct {
	baseURL  string
	username string
	token    string
	http     *http.Client
	logger   *slog.Logger
}

// NewClient creates a client for the configured instance.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, &errors.ConfigError{Key: "confluence.url", Reason: "must not be empty"}
	}
	if cfg.Username == "" || cfg.APIToken == "" {
		return nil, &errors.ConfigError{Key: "confluence.credentials", Reason: "username and api token are required"}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		hc, err := httpclient.New(httpclient.DefaultConfig())
		if err != nil {
			return nil, err
		}
		httpClient = hc
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		username: cfg.Username,
		token:    cfg.APIToken,
		http:     httpClient,
		logger:   logger,
	}, nil
}

// FindPage locates a page by space and title, optionally scoped to a
// parent. A missing page returns a *errors.NotFoundError so callers can
// distinguish the miss from transport and decode problems.
func (c *Client) FindPage(ctx context.Context, spaceKey, title, parentID string) (*Page, error) {
	cql := fmt.Sprintf(`type=page AND space=%q AND title=%q`, spaceKey, title)
	if parentID != "" {
		cql += fmt.Sprintf(` AND parent=%q`, parentID)
	}

	endpoint := fmt.Sprintf("%s/rest/api/content/search?cql=%s&limit=1&expand=version",
		c.baseURL, url.QueryEscape(cql))

	var result struct {
		Results []struct {
			ID      string `json:"id"`
			Title   string `json:"title"`
			Version struct {
				Number int `json:"number"`
			} `json:"version"`
		} `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, errors.Wrapf(err, "searching for page %q", title)
	}

	if len(result.Results) == 0 {
		return nil, &errors.NotFoundError{Resource: "page", ID: title}
	}

	found := result.Results[0]
	return &Page{ID: found.ID, Title: found.Title, Version: found.Version.Number}, nil
}

// CreatePage creates a page in storage representation under the given
// parent and returns its reference.
func (c *Client) CreatePage(ctx context.Context, spaceKey, title, body, parentID string) (*Page, error) {
	payload := map[string]any{
		"type":  "page",
		"title": title,
		"space": map[string]any{"key": spaceKey},
		"body": map[string]any{
			"storage": map[string]any{
				"value":          body,
				"representation": "storage",
			},
		},
	}
	if parentID != "" {
		payload["ancestors"] = []map[string]any{{"id": parentID}}
	}

	var created struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Version struct {
			Number int `json:"number"`
		} `json:"version"`
	}
	endpoint := c.baseURL + "/rest/api/content"
	if err := c.do(ctx, http.MethodPost, endpoint, payload, &created); err != nil {
		return nil, &errors.PublishError{Title: title, SpaceKey: spaceKey, Cause: err}
	}

	c.logger.Debug("created confluence page", "page", title, "id", created.ID)
	return &Page{ID: created.ID, Title: created.Title, Version: created.Version.Number}, nil
}

// UpdatePage replaces a page's content, bumping its version number.
func (c *Client) UpdatePage(ctx context.Context, page *Page, title, body, parentID string) error {
	payload := map[string]any{
		"type":    "page",
		"title":   title,
		"version": map[string]any{"number": page.Version + 1},
		"body": map[string]any{
			"storage": map[string]any{
				"value":          body,
				"representation": "storage",
			},
		},
	}
	if parentID != "" {
		payload["ancestors"] = []map[string]any{{"id": parentID}}
	}

	endpoint := c.baseURL + "/rest/api/content/" + page.ID
	if err := c.do(ctx, http.MethodPut, endpoint, payload, nil); err != nil {
		return &errors.PublishError{Title: title, Cause: err}
	}

	page.Version++
	c.logger.Debug("updated confluence page", "page", title, "id", page.ID, "version", page.Version)
	return nil
}

// do executes one authenticated JSON request. A non-2xx status is an error
// carrying the response body.
func (c *Client) do(ctx context.Context, method, endpoint string, payload, out any) error {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.username, c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("confluence returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
