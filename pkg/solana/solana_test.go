package solana

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBaseUnits(t *testing.T) {
	amount, err := BaseUnits(20, 9)
	require.NoError(t, err)
	require.Equal(t, uint64(20_000_000_000), amount)

	amount, err = BaseUnits(0, 9)
	require.NoError(t, err)
	require.Equal(t, uint64(0), amount)

	amount, err = BaseUnits(15, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(15), amount)
}

func TestBaseUnitsOverflow(t *testing.T) {
	_, err := BaseUnits(^uint64(0)/10, 9)
	require.ErrorIs(t, err, ErrAmountOverflow)
}
