package redis

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/placebook/internal/logger"
)

func TestDefaultOptions_Valid(t *testing.T) {
	opts := DefaultOptions("localhost:6379", "", 0)
	assert.NoError(t, opts.validate())
}

func TestValidate(t *testing.T) {
	opts := DefaultOptions("", "", 0)
	assert.Error(t, opts.validate())

	opts = DefaultOptions("localhost:6379", "", 0)
	opts.MaxWait = 0
	assert.Error(t, opts.validate())
}

func TestConnect_GivesUpAfterTimeout(t *testing.T) {
	// Reserve a port and close it so nothing is listening.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	opts := DefaultOptions(addr, "", 0)
	opts.ConnectTimeout = 300 * time.Millisecond
	opts.RetryInterval = 20 * time.Millisecond
	opts.MaxWait = 50 * time.Millisecond
	opts.PingTimeout = 50 * time.Millisecond
	opts.DialTimeout = 50 * time.Millisecond

	start := time.Now()
	client, err := Connect(context.Background(), opts, logger.NewNop())
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Less(t, time.Since(start), 2*time.Second)
}
