// cmd/walletgen/main.go
//
// 証明書 collection の運営ウォレット（TON V4R2）を生成する小さなツールです。
// - 24 語の mnemonic を生成
// - V4R2 ウォレットのアドレスを表示（collection の admin に登録するアドレス）
// - mnemonic を Secret Manager 登録用のファイルに保存します。
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xssnick/tonutils-go/ton/wallet"
)

func main() {
	out := flag.String("out", "certnft-ton-wallet.txt", "file to write the mnemonic to")
	asJSON := flag.Bool("json", false, "write the mnemonic as a JSON string array")
	flag.Parse()

	// 1. mnemonic を生成
	words := wallet.NewSeed()

	// 2. V4R2 ウォレットのアドレスを導出（ネットワーク接続は不要）
	w, err := wallet.FromSeed(nil, words, wallet.V4R2)
	if err != nil {
		log.Fatalf("failed to derive wallet: %v", err)
	}
	addr := w.WalletAddress()

	// 3. ファイルとして保存（上書き注意）
	var data []byte
	if *asJSON {
		data, err = json.Marshal(words)
		if err != nil {
			log.Fatalf("failed to marshal mnemonic: %v", err)
		}
	} else {
		data = []byte(strings.Join(words, " "))
	}
	if err := os.WriteFile(*out, data, 0o600); err != nil {
		log.Fatalf("failed to write %s: %v", *out, err)
	}

	fmt.Println("============================================")
	fmt.Println("✅ Certificate operator wallet generated")
	fmt.Println("============================================")
	fmt.Printf("Wallet address (V4R2):\n  %s\n\n", addr.String())
	fmt.Printf("Mnemonic file:\n  %s\n\n", *out)
	fmt.Println("⚠ IMPORTANT:")
	fmt.Println("  - この mnemonic ファイルは Git に絶対にコミットしないでください。")
	fmt.Println("  - GCP Secret Manager に登録し（TON_WALLET_SECRET）、ローカルのコピーは安全な場所に退避してください。")
	fmt.Println("  - collection の admin にこのアドレスを追加し、ガス代として TON を入金してください。")
}
