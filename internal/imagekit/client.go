package imagekit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/imagekit-developer/imagekit-go"
	"github.com/imagekit-developer/imagekit-go/api/uploader"
)

// authTokenValidity is how long a signed client-upload token stays usable.
const authTokenValidity = 30 * time.Minute

// AuthParams are the client-side upload credentials ImageKit expects.
type AuthParams struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
}

// UploadResult is the subset of ImageKit's upload response the service uses.
type UploadResult struct {
	URL          string `json:"url"`
	FileID       string `json:"fileId"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// Client wraps the ImageKit SDK for uploads and token signing, plus plain
// HTTP fetches of hosted images.
type Client struct {
	ik         *imagekit.ImageKit
	httpClient *http.Client
}

// New creates an ImageKit client.
func New(privateKey, publicKey, urlEndpoint string) *Client {
	return &Client{
		ik: imagekit.NewFromParams(imagekit.NewParams{
			PrivateKey:  privateKey,
			PublicKey:   publicKey,
			UrlEndpoint: urlEndpoint,
		}),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// AuthParams generates signed parameters for a client-side upload.
func (c *Client) AuthParams() AuthParams {
	signed := c.ik.SignToken(imagekit.SignTokenParam{
		Token:   uuid.New().String(),
		Expires: time.Now().Add(authTokenValidity).Unix(),
	})
	return AuthParams{
		Token:     signed.Token,
		Expire:    signed.Expires,
		Signature: signed.Signature,
	}
}

// Upload sends file bytes to ImageKit and returns the hosted URL and file id.
func (c *Client) Upload(ctx context.Context, data []byte, fileName, folder string) (*UploadResult, error) {
	resp, err := c.ik.Uploader.Upload(ctx, bytes.NewReader(data), uploader.UploadParam{
		FileName: fileName,
		Folder:   folder,
		Tags:     "prescription,medical",
	})
	if err != nil {
		return nil, fmt.Errorf("upload to imagekit: %w", err)
	}
	return &UploadResult{
		URL:          resp.Data.Url,
		FileID:       resp.Data.FileId,
		Name:         resp.Data.Name,
		ThumbnailURL: resp.Data.ThumbnailUrl,
	}, nil
}

// Download fetches image bytes from a hosted URL. Delivery URLs are plain
// HTTP GETs; the SDK only builds URLs, it does not fetch them.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download image: status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
