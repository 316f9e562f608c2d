// internal/infra/ton/connection.go
package ton

import (
	"context"
	"fmt"
	"strings"

	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/ton"
)

const (
	MainnetConfigURL = "https://ton.org/global.config.json"
	TestnetConfigURL = "https://ton.org/testnet-global.config.json"
)

// Conn is a liteserver connection pool plus the retrying API client on top.
type Conn struct {
	API  ton.APIClientWrapped
	pool *liteclient.ConnectionPool
}

// ResolveConfigURL は "mainnet" / "testnet" を global config の URL に展開する。
// 空は testnet、それ以外はそのまま URL として扱う。
func ResolveConfigURL(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "", "testnet":
		return TestnetConfigURL
	case "mainnet":
		return MainnetConfigURL
	}
	return v
}

// Connect は global config の liteserver 群に接続します。
func Connect(ctx context.Context, configURL string) (*Conn, error) {
	configURL = ResolveConfigURL(configURL)

	pool := liteclient.NewConnectionPool()
	if err := pool.AddConnectionsFromConfigUrl(ctx, configURL); err != nil {
		return nil, fmt.Errorf("ton: connect liteservers (%s): %w", configURL, err)
	}

	return &Conn{
		API:  ton.NewAPIClient(pool).WithRetry(),
		pool: pool,
	}, nil
}

func (c *Conn) Close() {
	if c == nil || c.pool == nil {
		return
	}
	c.pool.Stop()
}
