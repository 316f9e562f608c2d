// internal/infra/ton/address.go
package ton

import (
	"errors"
	"strings"

	"github.com/xssnick/tonutils-go/address"
)

var ErrEmptyAddress = errors.New("ton: address is empty")

// ParseAddress accepts the user-friendly base64 form ("EQ...", "UQ...")
// and the raw "workchain:hex" form.
func ParseAddress(s string) (*address.Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyAddress
	}
	if strings.Contains(s, ":") {
		return address.ParseRawAddr(s)
	}
	return address.ParseAddr(s)
}

// ValidateAddress reports whether s is a syntactically valid TON address.
// It does not check that the account exists.
func ValidateAddress(s string) bool {
	_, err := ParseAddress(s)
	return err == nil
}
