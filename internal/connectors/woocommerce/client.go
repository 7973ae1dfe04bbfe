package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"uploader/internal/config"
	"uploader/internal/logger"
)

type Client struct {
	apiBase        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
	logger         *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		apiBase:        cfg.StoreURL + "/wp-json/wc/v3",
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: log,
	}
}

// TestConnection verifies the store URL and credentials with a cheap read.
func (c *Client) TestConnection(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/products?per_page=1", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.apiError(resp)
	}
	return nil
}

// CreateProduct creates a product and returns the store's representation,
// including the assigned remote product ID.
func (c *Client) CreateProduct(ctx context.Context, payload *ProductPayload) (*Product, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/products", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, c.apiError(resp)
	}

	var product Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("Created product %d (%s)", product.ID, product.Name)
	return &product, nil
}

// UpdateProductImages attaches previously uploaded media to a product.
// The first media ID becomes the featured image.
func (c *Client) UpdateProductImages(ctx context.Context, productID int64, mediaIDs []int64) error {
	images := make([]ImageRef, len(mediaIDs))
	for i, id := range mediaIDs {
		images[i] = ImageRef{ID: id}
	}

	body, err := json.Marshal(map[string]interface{}{"images": images})
	if err != nil {
		return fmt.Errorf("failed to marshal images: %w", err)
	}

	path := "/products/" + strconv.FormatInt(productID, 10)
	req, err := c.newRequest(ctx, http.MethodPut, path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.apiError(resp)
	}
	return nil
}

// GetCategories fetches every product category, following pagination.
func (c *Client) GetCategories(ctx context.Context) ([]Category, error) {
	const perPage = 100

	var categories []Category
	for page := 1; ; page++ {
		path := fmt.Sprintf("/products/categories?per_page=%d&page=%d&hide_empty=false", perPage, page)
		req, err := c.newRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to make request: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			err := c.apiError(resp)
			resp.Body.Close()
			return nil, err
		}

		var batch []Category
		if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		resp.Body.Close()

		categories = append(categories, batch...)
		if len(batch) < perPage {
			break
		}
	}

	c.logger.Debug("Fetched %d categories", len(categories))
	return categories, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
}
