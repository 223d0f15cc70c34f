package bigint

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexBigIntUnmarshal(t *testing.T) {
	inputString := "0x09abc5177d51c36ef4c6a36197d023b60d8fec0100000000000001000000000a"
	inputInt := new(big.Int)
	inputInt.SetString(inputString[2:], 16)

	inputBytes, err := json.Marshal(inputString)
	require.NoError(t, err)

	u := new(HexBigInt)
	err = u.UnmarshalJSON(inputBytes)

	require.NoError(t, err)
	require.Equal(t, inputInt, u.Int)
}

func TestHexBigIntRejectsBareNumber(t *testing.T) {
	u := new(HexBigInt)
	require.Error(t, u.UnmarshalJSON([]byte(`"1234"`)))
}

func TestBigIntRoundTrip(t *testing.T) {
	in := &BigInt{Int: new(big.Int)}
	in.Int.SetString("340282366920938463463374607431768211455", 10)

	data, err := json.Marshal(in)
	require.NoError(t, err)
	require.Equal(t, `"340282366920938463463374607431768211455"`, string(data))

	out := new(BigInt)
	require.NoError(t, json.Unmarshal(data, out))
	require.Equal(t, 0, in.Cmp(out.Int))
}

func TestBigIntFromJSONNumber(t *testing.T) {
	out := new(BigInt)
	require.NoError(t, json.Unmarshal([]byte(`1000000`), out))
	require.Equal(t, int64(1000000), out.Int64())
}
