package starlark

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestBigIntConversion(t *testing.T) {
	huge, ok := new(big.Int).SetString("79228162514264337593543950337", 10)
	require.True(t, ok)

	v := FromBigInt(huge)
	got, err := ToBigInt(v)
	require.NoError(t, err)
	assert.Equal(t, 0, huge.Cmp(got))

	assert.Equal(t, starlark.None, FromBigInt(nil))
	got, err = ToBigInt(starlark.None)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ToBigInt(starlark.String("1"))
	assert.Error(t, err)
}

func TestToRules(t *testing.T) {
	tests := []struct {
		name    string
		value   starlark.Value
		want    []int64
		texts   []string
		wantErr bool
	}{
		{name: "none", value: starlark.None},
		{name: "single int", value: starlark.MakeInt(7), want: []int64{7}, texts: []string{""}},
		{
			name:  "list of ints",
			value: starlark.NewList([]starlark.Value{starlark.MakeInt(1), starlark.MakeInt(2)}),
			want:  []int64{1, 2},
			texts: []string{"", ""},
		},
		{
			name: "pairs",
			value: starlark.NewList([]starlark.Value{
				starlark.Tuple{starlark.MakeInt(3), starlark.String(".a {}")},
			}),
			want:  []int64{3},
			texts: []string{".a {}"},
		},
		{
			name:  "none orders are skipped",
			value: starlark.Tuple{starlark.None, starlark.MakeInt(4)},
			want:  []int64{4},
			texts: []string{""},
		},
		{name: "string", value: starlark.String("nope"), wantErr: true},
		{name: "dict", value: starlark.NewDict(0), wantErr: true},
		{
			name:    "bad pair",
			value:   starlark.NewList([]starlark.Value{starlark.Tuple{starlark.MakeInt(1)}}),
			wantErr: true,
		},
		{
			name:    "bad text",
			value:   starlark.NewList([]starlark.Value{starlark.Tuple{starlark.MakeInt(1), starlark.MakeInt(2)}}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := ToRules(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, rules, len(tt.want))
			for i, r := range rules {
				assert.Equal(t, tt.want[i], r.Order.Int64())
				assert.Equal(t, tt.texts[i], r.Text)
			}
		})
	}
}
