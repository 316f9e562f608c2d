// internal/adapters/out/metadata/fetcher.go
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	certdom "certnft/internal/domain/certificate"
)

const (
	DefaultIPFSGateway = "https://ipfs.io/ipfs/"
	DefaultTimeout     = 10 * time.Second

	// metadata JSON の上限
	maxBodyBytes = 1 << 20
)

var ErrUnsupportedScheme = errors.New("metadata: unsupported uri scheme")

// Fetcher は token URI から metadata JSON を取得します。
//
//   - http(s)://        : GET（非 2xx はエラー）
//   - ipfs://           : Gateway に書き換えて GET
//   - gs:// / storage.googleapis.com : GCS client があれば直接読む
type Fetcher struct {
	HTTP        *http.Client
	GCS         *storage.Client
	IPFSGateway string
}

func NewFetcher(httpClient *http.Client, gcs *storage.Client, ipfsGateway string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if strings.TrimSpace(ipfsGateway) == "" {
		ipfsGateway = DefaultIPFSGateway
	}
	return &Fetcher{HTTP: httpClient, GCS: gcs, IPFSGateway: ipfsGateway}
}

func (f *Fetcher) Fetch(ctx context.Context, uri string) (certdom.Metadata, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, fmt.Errorf("%w: empty uri", ErrUnsupportedScheme)
	}

	if f.GCS != nil {
		if bucket, obj, ok := ParseGCSURL(uri); ok {
			return f.fetchGCS(ctx, bucket, obj)
		}
	}

	if gw, ok := IPFSToGateway(uri, f.IPFSGateway); ok {
		uri = gw
	}

	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("metadata: parse uri: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return f.fetchHTTP(ctx, u.String())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, uri string) (certdom.Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("metadata: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := f.HTTP
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metadata: get %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("metadata: get %s: status=%d", uri, resp.StatusCode)
	}
	return decode(resp.Body)
}

func (f *Fetcher) fetchGCS(ctx context.Context, bucket, obj string) (certdom.Metadata, error) {
	rc, err := f.GCS.Bucket(bucket).Object(obj).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("metadata: gs://%s/%s not found: %w", bucket, obj, err)
		}
		return nil, fmt.Errorf("metadata: gs://%s/%s: %w", bucket, obj, err)
	}
	defer rc.Close()
	return decode(rc)
}

func decode(r io.Reader) (certdom.Metadata, error) {
	var m certdom.Metadata
	if err := json.NewDecoder(io.LimitReader(r, maxBodyBytes)).Decode(&m); err != nil {
		return nil, fmt.Errorf("metadata: decode json: %w", err)
	}
	if m == nil {
		return nil, errors.New("metadata: body is not a json object")
	}
	return m, nil
}
