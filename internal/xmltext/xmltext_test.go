package xmltext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	for _, ok := range []string{"", "plain", "tab\tnew\nret\r", "café", "�", "\U0001F600", "\u0085"} {
		require.NoError(t, Check(ok), "%q", ok)
	}
	for _, bad := range []string{"caf\xe9", "bell\x07", "nul\x00", "￾", "\xed\xa0\x80"} {
		require.Error(t, Check(bad), "%q", bad)
	}
	require.ErrorContains(t, Check("ab\xe9"), "offset 2")
}
