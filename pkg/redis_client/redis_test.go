package redis_client

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	server := miniredis.RunT(t)
	t.Setenv("TRAINBOARD_REDIS_ADDRESS", server.Addr())

	assert.True(t, Enabled())
	require.NoError(t, Connect())
	require.NotNil(t, Client)
	t.Cleanup(func() { Client.Close(); Client = nil })
}

func TestConnectRejectsBadDatabase(t *testing.T) {
	server := miniredis.RunT(t)
	t.Setenv("TRAINBOARD_REDIS_ADDRESS", server.Addr())
	t.Setenv("TRAINBOARD_REDIS_DATABASE", "primary")

	assert.Error(t, Connect())
}

func TestEnabledWithoutAddress(t *testing.T) {
	t.Setenv("TRAINBOARD_REDIS_ADDRESS", "")

	assert.False(t, Enabled())
}
