// Package assets uploads user-supplied images to the external image host
// (Cloudinary) and hands back a hosted URL. Raw payloads are never stored
// in the database; only the returned secure_url is persisted.
package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotConfigured is returned when the image host credentials are absent.
// Callers treat it like any other upload failure.
var ErrNotConfigured = errors.New("image host not configured")

// CloudinaryClient performs unsigned uploads against the Cloudinary REST
// API. An unsigned upload is a single form POST: the upload preset, created
// in the Cloudinary console, decides folder and allowed formats server-side.
type CloudinaryClient struct {
	CloudName    string
	UploadPreset string
	HTTPClient   *http.Client
	BaseURL      string // overridden in tests
}

// NewCloudinaryClient builds a client from the given credentials. Either
// value may be empty; Upload then fails with ErrNotConfigured.
func NewCloudinaryClient(cloudName, uploadPreset string) *CloudinaryClient {
	return &CloudinaryClient{
		CloudName:    cloudName,
		UploadPreset: uploadPreset,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
		BaseURL:      "https://api.cloudinary.com/v1_1",
	}
}

// Upload sends a data-URI (or remote URL) payload to the image host and
// returns the hosted secure URL.
func (c *CloudinaryClient) Upload(ctx context.Context, data string) (string, error) {
	if c.CloudName == "" || c.UploadPreset == "" {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(data) == "" {
		return "", errors.New("empty image payload")
	}

	form := url.Values{}
	form.Set("file", data)
	form.Set("upload_preset", c.UploadPreset)

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.BaseURL, c.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image host returned status %d", resp.StatusCode)
	}

	var out struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.SecureURL == "" {
		return "", errors.New("image host response missing secure_url")
	}
	return out.SecureURL, nil
}
