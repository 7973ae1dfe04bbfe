package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"uploader/internal/config"
	"uploader/internal/logger"
)

// Client uploads files to the WordPress media library using application
// password auth. WooCommerce product images reference media by ID.
type Client struct {
	mediaURL   string
	username   string
	password   string
	httpClient *http.Client
	logger     *logger.Logger
}

// Media is the uploaded attachment as reported by WordPress.
type Media struct {
	ID        int64  `json:"id"`
	SourceURL string `json:"source_url"`
}

func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		mediaURL: cfg.StoreURL + "/wp-json/wp/v2/media",
		username: cfg.WPUsername,
		password: cfg.WPAppPassword,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: log,
	}
}

// UploadMedia posts the raw image bytes, full quality, no re-encoding.
func (c *Client) UploadMedia(ctx context.Context, path string) (*Media, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	filename := filepath.Base(path)
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.mediaURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	req.Header.Set("Content-Type", mimeType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("media upload failed: %d - %s", resp.StatusCode, string(body))
	}

	var media Media
	if err := json.NewDecoder(resp.Body).Decode(&media); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("Uploaded media %d from %s", media.ID, filename)
	return &media, nil
}
