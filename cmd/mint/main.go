// cmd/mint/main.go
//
// 運営用 CLI: API を経由せずに 1 件 mint / admin 追加を行い、結果を JSON で出力します。
//
//	go run ./cmd/mint -student EQ...
//	go run ./cmd/mint -admin EQ...
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"os/user"
	"syscall"

	mintapp "certnft/internal/application/mint"
	certdom "certnft/internal/domain/certificate"
	"certnft/internal/platform/di"
)

func main() {
	student := flag.String("student", "", "student address to mint a certificate for")
	admin := flag.String("admin", "", "address to grant admin rights")
	flag.Parse()

	if (*student == "") == (*admin == "") {
		fmt.Fprintln(os.Stderr, "usage: mint -student <address> | mint -admin <address>")
		os.Exit(2)
	}

	// Ctrl+C で待機中の mint を中断する（結果は code=canceled）
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cont, err := di.NewContainer(ctx)
	if err != nil {
		log.Fatalf("[mint] di init failed: %v", err)
	}
	defer cont.Close()

	ctx = mintapp.WithRequester(ctx, cliRequester())

	var res certdom.TransactionResult
	if *student != "" {
		res = cont.Orchestrator.Mint(ctx, *student)
	} else {
		res = cont.Orchestrator.AddAdmin(ctx, *admin)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(res)

	if !res.Success {
		// defer を実行してから終了する
		cont.Close()
		stop()
		os.Exit(1)
	}
}

func cliRequester() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return "cli:" + u.Username
	}
	return "cli"
}
