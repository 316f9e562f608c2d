// internal/domain/certificate/entity.go
package certificate

import "strings"

// ------------------------------------------------------
// Entities (すべて 1 回の mint 呼び出しの中でだけ生きる値)
// ------------------------------------------------------

// ContractState は collection コントラクトから読んだスナップショットです。
// NextID は単調非減少のカウンタ（next_item_index）で、こちらからは読むだけ。
type ContractState struct {
	NextID int64 `json:"nextId"`
}

// Transaction はウォレットに渡す 1 通の内部メッセージです。
//
//   - Destination : 送信先（collection コントラクト）アドレス
//   - Value       : 添付する金額（nanoton）
//   - Body        : メッセージ本文セルの BOC
//
// 生成後に書き換えない。WalletSession で一度だけ消費される。
type Transaction struct {
	Destination string `json:"destination"`
	Value       uint64 `json:"value"`
	Body        []byte `json:"body"`
}

// Broadcast はウォレットが送信後に返す不透明な識別子です。
// ネットワークに投げたことを示すだけで、チェーン上の確定を意味しない。
type Broadcast struct {
	// ID は署名済み external message の BOC (base64)。
	ID string `json:"id"`
	// Hash は external message セルのハッシュ (hex)。
	Hash string `json:"hash,omitempty"`
}

// Token は mint 後に存在確認する NFT item の読み取り専用ビューです。
type Token struct {
	ID          int64  `json:"id"`
	Address     string `json:"address"`
	Owner       string `json:"owner,omitempty"`
	Collection  string `json:"collection,omitempty"`
	Initialized bool   `json:"initialized"`
}

// Metadata は token URI から取得した JSON ドキュメントです。
type Metadata map[string]any

func (m Metadata) str(key string) string {
	if m == nil {
		return ""
	}
	v, ok := m[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// Name returns the "name" field, or "" when absent.
func (m Metadata) Name() string { return m.str("name") }

// Description returns the "description" field, or "" when absent.
func (m Metadata) Description() string { return m.str("description") }

// Image returns the "image" field, or "" when absent.
func (m Metadata) Image() string { return m.str("image") }

// Certificate is the verification view of a minted token.
type Certificate struct {
	Token         Token    `json:"token"`
	MetadataURI   string   `json:"metadataUri,omitempty"`
	Metadata      Metadata `json:"metadata,omitempty"`
	MetadataError string   `json:"metadataError,omitempty"`
}
