package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAndRelease(t *testing.T) {
	client, mock := redismock.NewClientMock()
	m := New(client)

	mock.Regexp().ExpectSetNX("jobs:sweep", `^[0-9a-f]{32}$`, time.Second).SetVal(true)
	mock.Regexp().ExpectEvalSha(releaseScript.Hash(), []string{"jobs:sweep"}, `^[0-9a-f]{32}$`).SetVal(int64(1))

	release, ok, err := m.Acquire(context.Background(), "jobs:sweep", time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, release)

	require.NoError(t, release(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireBusy(t *testing.T) {
	client, mock := redismock.NewClientMock()
	m := New(client)

	mock.Regexp().ExpectSetNX("jobs:sweep", `^[0-9a-f]{32}$`, time.Second).SetVal(false)

	release, ok, err := m.Acquire(context.Background(), "jobs:sweep", time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, release)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	m := New(client)

	mock.Regexp().ExpectSetNX("jobs:sweep", `^[0-9a-f]{32}$`, time.Second).SetErr(errors.New("connection refused"))

	_, ok, err := m.Acquire(context.Background(), "jobs:sweep", time.Second)
	assert.Error(t, err)
	assert.False(t, ok)
}
