// internal/adapters/out/metadata/uri.go
package metadata

import (
	"net/url"
	"strings"
)

// ParseGCSURL parses a GCS-like URL and returns (bucket, objectPath, ok).
// 対応例:
//   - gs://<bucket>/<object>
//   - https://storage.googleapis.com/<bucket>/<object>
//   - https://storage.cloud.google.com/<bucket>/<object>
func ParseGCSURL(u string) (string, string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil {
		return "", "", false
	}

	if strings.EqualFold(parsed.Scheme, "gs") {
		obj := strings.TrimLeft(parsed.Path, "/")
		if parsed.Host == "" || obj == "" {
			return "", "", false
		}
		return parsed.Host, obj, true
	}

	host := strings.ToLower(parsed.Host)
	if host != "storage.googleapis.com" && host != "storage.cloud.google.com" {
		return "", "", false
	}

	p := strings.TrimLeft(parsed.EscapedPath(), "/")
	parts := strings.SplitN(p, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}

	objectPath, err := url.PathUnescape(parts[1])
	if err != nil {
		return "", "", false
	}
	return parts[0], objectPath, true
}

// IPFSToGateway rewrites ipfs://<cid>/<path> (and ipfs://ipfs/<cid>) onto an
// HTTP gateway base such as "https://ipfs.io/ipfs/".
func IPFSToGateway(uri, gateway string) (string, bool) {
	uri = strings.TrimSpace(uri)
	const scheme = "ipfs://"
	if len(uri) < len(scheme) || !strings.EqualFold(uri[:len(scheme)], scheme) {
		return "", false
	}
	rest := strings.TrimPrefix(uri[len(scheme):], "ipfs/")
	if rest == "" {
		return "", false
	}
	gateway = strings.TrimSpace(gateway)
	if gateway == "" {
		gateway = DefaultIPFSGateway
	}
	return strings.TrimRight(gateway, "/") + "/" + rest, true
}
