package bigint

import (
	"encoding/json"
	"errors"
	"math/big"
)

// BigInt is a wrapper around big.Int that marshals to and from decimal
// strings, the way aggregator APIs encode raw token amounts.
type BigInt struct {
	*big.Int
}

func NewBigInt(x int64) *BigInt {
	return &BigInt{Int: big.NewInt(x)}
}

func (b *BigInt) MarshalJSON() ([]byte, error) {
	if b == nil || b.Int == nil {
		return json.Marshal("0")
	}
	return json.Marshal(b.Int.String())
}

func (b *BigInt) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	b.Int = new(big.Int)
	switch v := raw.(type) {
	case string:
		if _, ok := b.Int.SetString(v, 10); !ok {
			return errors.New("bigint: invalid decimal string: " + v)
		}
	case float64:
		// json numbers below 2^53 round-trip exactly through float64
		b.Int.SetInt64(int64(v))
	default:
		return errors.New("bigint: unsupported JSON type")
	}
	return nil
}
