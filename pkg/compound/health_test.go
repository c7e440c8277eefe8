package compound

import (
	"testing"

	"lendpool/pkg/number"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthFactor(t *testing.T) {
	hf, err := HealthFactor(number.MustParse("40000000000000000000"), number.Zero())
	require.Nil(t, err)
	assert.Equal(t, "100000000000000000000", hf.Dec())
	assert.True(t, IsHealthy(hf))

	hf, err = HealthFactor(number.MustParse("40000000000000000000"), number.MustParse("20000000000000000000"))
	require.Nil(t, err)
	assert.Equal(t, "1600000000000000000", hf.Dec())
	assert.True(t, IsHealthy(hf))

	hf, err = HealthFactor(number.MustParse("24000000000000000000"), number.MustParse("20000000000000000000"))
	require.Nil(t, err)
	assert.Equal(t, "960000000000000000", hf.Dec())
	assert.False(t, IsHealthy(hf))

	hf, err = HealthFactor(number.MustParse("25000000000000000000"), number.MustParse("20000000000000000000"))
	require.Nil(t, err)
	assert.True(t, IsHealthy(hf))
}

func TestUSDValue(t *testing.T) {
	// 10 units of an 8 decimals token at $4
	v, err := USDValue(number.U(10e8), number.MustParse("4000000000000000000"), 8)
	require.Nil(t, err)
	assert.Equal(t, "40000000000000000000", v.Dec())

	// 1.5 units of an 18 decimals token at $2
	v, err = USDValue(number.MustParse("1500000000000000000"), number.MustParse("2000000000000000000"), 18)
	require.Nil(t, err)
	assert.Equal(t, "3000000000000000000", v.Dec())
}
