package gocollection

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Request_Settle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	req := newRequest(Query{Offset: 20}, cancel)

	_, err := uuid.Parse(req.ID())
	require.NoError(t, err)
	require.Equal(t, 20, req.Query().Offset)
	require.True(t, req.Pending())
	require.NoError(t, req.Err())

	boom := errors.New("boom")
	req.settle(boom)
	req.settle(nil)

	require.False(t, req.Pending())
	require.ErrorIs(t, req.Err(), boom)
	require.ErrorIs(t, req.Wait(context.Background()), boom)
	require.ErrorIs(t, ctx.Err(), context.Canceled)

	<-req.Done()
	req.Abort()
}

func Test_Request_WaitHonorsContext(t *testing.T) {
	req := newRequest(Query{}, func() {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, req.Wait(ctx), context.Canceled)
	require.True(t, req.Pending())
}

func Test_Request_Nil(t *testing.T) {
	var req *Request

	require.Empty(t, req.ID())
	require.Equal(t, Query{}, req.Query())
	require.False(t, req.Pending())
	require.NoError(t, req.Wait(context.Background()))

	// A nil handle counts as settled.
	select {
	case <-req.Done():
	default:
		t.Fatal("nil request is not done")
	}
}
