// internal/infra/ton/collection_client.go
package ton

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/ton/nft"
	"github.com/xssnick/tonutils-go/tvm/cell"

	certdom "certnft/internal/domain/certificate"
)

var ErrNoTokenURI = errors.New("ton: token content has no uri")

// CollectionClient implements the read side of the certificate collection
// (TEP-62 get-methods plus the custom is_admin).
type CollectionClient struct {
	api        ton.APIClientWrapped
	addr       *address.Address
	collection *nft.CollectionClient
}

func NewCollectionClient(api ton.APIClientWrapped, collection *address.Address) *CollectionClient {
	return &CollectionClient{
		api:        api,
		addr:       collection,
		collection: nft.NewCollectionClient(api, collection),
	}
}

// IsAdmin runs `is_admin(slice addr) -> int` on the collection.
func (c *CollectionClient) IsAdmin(ctx context.Context, addr string) (bool, error) {
	a, err := ParseAddress(addr)
	if err != nil {
		return false, fmt.Errorf("ton: is_admin: %w", err)
	}

	block, err := c.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return false, fmt.Errorf("ton: masterchain info: %w", err)
	}

	arg := cell.BeginCell().MustStoreAddr(a).EndCell().BeginParse()
	res, err := c.api.RunGetMethod(ctx, block, c.addr, "is_admin", arg)
	if err != nil {
		return false, fmt.Errorf("ton: is_admin: %w", err)
	}
	v, err := res.Int(0)
	if err != nil {
		return false, fmt.Errorf("ton: is_admin result: %w", err)
	}
	return v.Sign() != 0, nil
}

// GetState reads next_item_index from get_collection_data.
func (c *CollectionClient) GetState(ctx context.Context) (certdom.ContractState, error) {
	data, err := c.collection.GetCollectionData(ctx)
	if err != nil {
		return certdom.ContractState{}, fmt.Errorf("ton: get_collection_data: %w", err)
	}
	if data.NextItemIndex == nil || !data.NextItemIndex.IsInt64() {
		return certdom.ContractState{}, fmt.Errorf("ton: next_item_index out of range: %v", data.NextItemIndex)
	}
	return certdom.ContractState{NextID: data.NextItemIndex.Int64()}, nil
}

// GetToken returns certdom.ErrTokenNotFound while the item contract is not
// active or not initialized.
func (c *CollectionClient) GetToken(ctx context.Context, id int64) (*certdom.Token, error) {
	itemAddr, data, err := c.itemData(ctx, id)
	if err != nil {
		return nil, err
	}

	t := &certdom.Token{
		ID:          id,
		Address:     itemAddr.String(),
		Initialized: data.Initialized,
	}
	if data.OwnerAddress != nil {
		t.Owner = data.OwnerAddress.String()
	}
	if data.CollectionAddress != nil {
		t.Collection = data.CollectionAddress.String()
	}
	return t, nil
}

// GetTokenURI resolves the full content URI via get_nft_content.
func (c *CollectionClient) GetTokenURI(ctx context.Context, id int64) (string, error) {
	_, data, err := c.itemData(ctx, id)
	if err != nil {
		return "", err
	}

	content, err := c.collection.GetNFTContent(ctx, data.Index, data.Content)
	if err != nil {
		return "", fmt.Errorf("ton: get_nft_content %d: %w", id, err)
	}

	var uri string
	switch v := content.(type) {
	case *nft.ContentOffchain:
		uri = v.URI
	case *nft.ContentSemichain:
		uri = v.URI
	case *nft.ContentOnchain:
		uri = v.GetAttribute("uri")
	}
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "", fmt.Errorf("%w: id=%d", ErrNoTokenURI, id)
	}
	return uri, nil
}

func (c *CollectionClient) itemData(ctx context.Context, id int64) (*address.Address, *nft.ItemData, error) {
	if id < 0 {
		return nil, nil, fmt.Errorf("%w: negative id %d", certdom.ErrTokenNotFound, id)
	}

	itemAddr, err := c.collection.GetNFTAddressByIndex(ctx, big.NewInt(id))
	if err != nil {
		return nil, nil, fmt.Errorf("ton: get_nft_address_by_index %d: %w", id, err)
	}

	block, err := c.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("ton: masterchain info: %w", err)
	}
	acc, err := c.api.GetAccount(ctx, block, itemAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("ton: get account %s: %w", itemAddr.String(), err)
	}
	if acc == nil || !acc.IsActive {
		return nil, nil, fmt.Errorf("%w: id=%d item=%s not active", certdom.ErrTokenNotFound, id, itemAddr.String())
	}

	data, err := nft.NewItemClient(c.api, itemAddr).GetNFTData(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("ton: get_nft_data %d: %w", id, err)
	}
	if !data.Initialized {
		return nil, nil, fmt.Errorf("%w: id=%d not initialized", certdom.ErrTokenNotFound, id)
	}
	return itemAddr, data, nil
}
