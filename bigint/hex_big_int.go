package bigint

import (
	"encoding/json"
	"errors"
	"math/big"
	"strings"
)

// HexBigInt unmarshals 0x-prefixed quantities returned by JSON-RPC endpoints.
type HexBigInt struct {
	*big.Int
}

func (b *HexBigInt) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	if !strings.HasPrefix(s, "0x") {
		return errors.New("bigint: hex quantity must have 0x prefix")
	}

	b.Int = new(big.Int)
	if _, ok := b.Int.SetString(s[2:], 16); !ok {
		return errors.New("bigint: invalid hex quantity: " + s)
	}
	return nil
}
