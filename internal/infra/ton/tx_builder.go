// internal/infra/ton/tx_builder.go
package ton

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"

	certdom "certnft/internal/domain/certificate"
)

// certificate collection のメッセージ op コード
const (
	OpMintCertificate uint64 = 0x1674b0a0
	OpAddAdmin        uint64 = 0x7b4b42e6
)

const (
	DefaultMintValue  = "0.05"
	DefaultAdminValue = "0.02"
)

var ErrCollectionNotConfigured = errors.New("ton: collection address is not configured")

// TxBuilder は collection コントラクト宛ての内部メッセージを組み立てます。
// 入力と設定が同じなら常に同じ Transaction を返す（I/O なし）。
//
// body layout:
//
//	op:uint32  query_id:uint64  target:MsgAddress
type TxBuilder struct {
	Collection *address.Address
	MintValue  tlb.Coins
	AdminValue tlb.Coins

	// QueryID が nil なら 0 を使う
	QueryID func() uint64
}

// NewTxBuilder parses the collection address and TON amounts ("0.05").
// Empty amounts fall back to the defaults.
func NewTxBuilder(collection, mintValue, adminValue string) (*TxBuilder, error) {
	addr, err := ParseAddress(collection)
	if err != nil {
		return nil, fmt.Errorf("ton: collection address %q: %w", collection, err)
	}
	mv, err := parseCoins(mintValue, DefaultMintValue)
	if err != nil {
		return nil, fmt.Errorf("ton: mint value: %w", err)
	}
	av, err := parseCoins(adminValue, DefaultAdminValue)
	if err != nil {
		return nil, fmt.Errorf("ton: admin value: %w", err)
	}
	return &TxBuilder{Collection: addr, MintValue: mv, AdminValue: av}, nil
}

func parseCoins(v, def string) (tlb.Coins, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		v = def
	}
	return tlb.FromTON(v)
}

// BuildMint encodes a mint instruction carrying the student's address.
func (b *TxBuilder) BuildMint(studentAddress string) (certdom.Transaction, error) {
	return b.build(OpMintCertificate, studentAddress)
}

// BuildAddAdmin encodes an admin-grant instruction.
func (b *TxBuilder) BuildAddAdmin(adminAddress string) (certdom.Transaction, error) {
	return b.build(OpAddAdmin, adminAddress)
}

// build は nil receiver でも panic せず ErrEncoding を返す
func (b *TxBuilder) build(op uint64, target string) (certdom.Transaction, error) {
	if b == nil || b.Collection == nil {
		return certdom.Transaction{}, fmt.Errorf("%w: %v", certdom.ErrEncoding, ErrCollectionNotConfigured)
	}

	value := b.MintValue
	if op == OpAddAdmin {
		value = b.AdminValue
	}

	addr, err := ParseAddress(target)
	if err != nil {
		return certdom.Transaction{}, fmt.Errorf("%w: target %q: %v", certdom.ErrEncoding, target, err)
	}

	var qid uint64
	if b.QueryID != nil {
		qid = b.QueryID()
	}

	body := cell.BeginCell()
	if err := body.StoreUInt(op, 32); err != nil {
		return certdom.Transaction{}, fmt.Errorf("%w: op: %v", certdom.ErrEncoding, err)
	}
	if err := body.StoreUInt(qid, 64); err != nil {
		return certdom.Transaction{}, fmt.Errorf("%w: query_id: %v", certdom.ErrEncoding, err)
	}
	if err := body.StoreAddr(addr); err != nil {
		return certdom.Transaction{}, fmt.Errorf("%w: address: %v", certdom.ErrEncoding, err)
	}

	return certdom.Transaction{
		Destination: b.Collection.String(),
		Value:       value.Nano().Uint64(),
		Body:        body.EndCell().ToBOC(),
	}, nil
}
