// cmd/ddlgen/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	certdom "certnft/internal/domain/certificate"
)

func mustWrite(path string, content string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		panic(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		panic(err)
	}
}

func main() {
	outDir := flag.String("out", filepath.Join("internal", "infra", "database", "migrations"), "output directory")
	flag.Parse()

	outJournal := filepath.Join(*outDir, "init_certificate_mints.sql")

	mustWrite(outJournal, certdom.JournalTableDDL)
	fmt.Println("✅ Generated:", outJournal)
}
