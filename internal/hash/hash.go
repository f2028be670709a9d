package hash

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// HexToBytes32Strict parses a 0x-prefixed or bare hex string that must
// decode to exactly 32 bytes.
func HexToBytes32Strict(s string) ([32]byte, error) {
	var out [32]byte
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 != 0 {
		return out, fmt.Errorf("hex must have even length")
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	if len(b) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(b))
	}
	copy(out[:], b) // copy into fixed array
	return out, nil
}

// Render formats a digest as the 0x-prefixed hex string the API returns.
func Render(digest []byte) string {
	return hexutil.Encode(digest)
}
