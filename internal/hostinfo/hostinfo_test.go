package hostinfo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogicalCPUs(t *testing.T) {
	require.GreaterOrEqual(t, LogicalCPUs(), 1)
}
