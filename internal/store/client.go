// Package store talks to the SmartDrive remote file store over HTTP.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// previewByteLimit bounds how much of a file is fetched for text previews.
const previewByteLimit = 256 * 1024

// ServerError is a completed request the store answered with a failure. It is
// distinct from transport errors: the operation ran, the server said no.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// Client is the HTTP client for the store. Calls take a context and are never
// retried; the caller re-triggers failed operations.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// New creates a store client.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		log: cfg.Logger,
	}
}

// BaseURL returns the configured store address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ContentURL returns the address media previews embed directly.
func (c *Client) ContentURL(relpath string) string {
	return c.baseURL + "/view/" + escapePath(relpath)
}

func escapePath(relpath string) string {
	segments := strings.Split(relpath, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// List fetches the flat file listing.
func (c *Client) List(ctx context.Context) ([]FileRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.failureFrom(resp)
	}

	var listing listResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	c.log.Debug("catalog listed", zap.Int("files", len(listing.Files)))
	return listing.Files, nil
}

// Delete removes one file addressed by relative path. A server-side refusal
// comes back as *ServerError carrying the store's message.
func (c *Client) Delete(ctx context.Context, relpath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/files/"+escapePath(relpath), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s: %w", relpath, err)
	}
	defer resp.Body.Close()

	var result OpResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && !result.Success {
		return &ServerError{StatusCode: resp.StatusCode, Message: result.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return &ServerError{StatusCode: resp.StatusCode}
	}

	c.log.Info("file deleted", zap.String("path", relpath))
	return nil
}

// ViewContent fetches raw bytes for a text-like preview, capped at
// previewByteLimit.
func (c *Client) ViewContent(ctx context.Context, relpath string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ContentURL(relpath), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch content %s: %w", relpath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.failureFrom(resp)
	}

	return io.ReadAll(io.LimitReader(resp.Body, previewByteLimit))
}

// Probe checks that a file exists before download navigation.
func (c *Client) Probe(ctx context.Context, relpath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/download/"+escapePath(relpath), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", relpath, err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ServerError{StatusCode: resp.StatusCode}
	}
	return nil
}

// Download streams a file into dstDir and returns the destination path.
func (c *Client) Download(ctx context.Context, relpath, dstDir string) (string, error) {
	if err := c.Probe(ctx, relpath); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/download/"+escapePath(relpath), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", relpath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.failureFrom(resp)
	}

	dst := filepath.Join(dstDir, filepath.Base(relpath))
	if err := writeStream(dst, resp.Body); err != nil {
		return "", err
	}

	c.log.Info("file downloaded", zap.String("path", relpath), zap.String("dest", dst))
	return dst, nil
}

// DownloadFolder streams a folder archive into dstDir.
func (c *Client) DownloadFolder(ctx context.Context, folder, dstDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/download-folder/"+url.PathEscape(folder), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download folder %s: %w", folder, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.failureFrom(resp)
	}

	dst := filepath.Join(dstDir, folder+".zip")
	if err := writeStream(dst, resp.Body); err != nil {
		return "", err
	}

	c.log.Info("folder archived", zap.String("folder", folder), zap.String("dest", dst))
	return dst, nil
}

// Rules fetches the categorization rule mapping.
func (c *Client) Rules(ctx context.Context) (RuleSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rules", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.failureFrom(resp)
	}

	var rules rulesResponse
	if err := json.NewDecoder(resp.Body).Decode(&rules); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	return rules.Rules, nil
}

// SaveRule stores one folder rule and returns the updated mapping.
func (c *Client) SaveRule(ctx context.Context, folder string, extensions []string) (RuleSet, error) {
	for i, ext := range extensions {
		extensions[i] = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	}

	body, err := json.Marshal(map[string]any{
		"folder":     folder,
		"extensions": extensions,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rules", strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("save rule: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.failureFrom(resp)
	}

	var rules rulesResponse
	if err := json.NewDecoder(resp.Body).Decode(&rules); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	c.log.Info("rule saved", zap.String("folder", folder), zap.Int("extensions", len(extensions)))
	return rules.Rules, nil
}

// Health checks store liveness.
func (c *Client) Health(ctx context.Context) (Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return Health{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Health{}, fmt.Errorf("health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Health{}, &ServerError{StatusCode: resp.StatusCode}
	}

	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return Health{}, fmt.Errorf("decode health: %w", err)
	}
	return h, nil
}

// Stats fetches storage usage.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats", nil)
	if err != nil {
		return Stats{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Stats{}, c.failureFrom(resp)
	}

	var s Stats
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return Stats{}, fmt.Errorf("decode stats: %w", err)
	}
	return s, nil
}

// failureFrom builds a ServerError, salvaging the message envelope when the
// body carries one.
func (c *Client) failureFrom(resp *http.Response) error {
	serr := &ServerError{StatusCode: resp.StatusCode}
	var result OpResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		serr.Message = result.Message
	}
	return serr
}

func writeStream(dst string, r io.Reader) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return err
	}
	return f.Close()
}
