package redis

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) (*Ledger, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cl := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cl.Close() })
	return NewWithClient(cl, "test:"), mr
}

func collect(t *testing.T, l *Ledger, lastEventID string) (ids []string, payloads []string) {
	t.Helper()
	err := l.ReplayAfter(context.Background(), lastEventID, func(_ context.Context, id string, payload []byte) error {
		ids = append(ids, id)
		payloads = append(payloads, string(payload))
		return nil
	})
	require.NoError(t, err)
	return ids, payloads
}

func TestAppendAndReplay(t *testing.T) {
	l, _ := newTestLedger(t)

	var ids []string
	for i := 1; i <= 4; i++ {
		id, err := l.Append(context.Background(), "stream-a", []byte(fmt.Sprintf("p%d", i)))
		require.NoError(t, err)
		if i > 1 {
			assert.Greater(t, id, ids[len(ids)-1])
		}
		ids = append(ids, id)
	}

	got, payloads := collect(t, l, ids[0])
	assert.Equal(t, ids[1:], got)
	assert.Equal(t, []string{"p2", "p3", "p4"}, payloads)
}

func TestReplayUnknownIDYieldsNothing(t *testing.T) {
	l, _ := newTestLedger(t)

	_, err := l.Append(context.Background(), "stream-a", []byte("p1"))
	require.NoError(t, err)

	for _, last := range []string{
		"stream-a.99999999999999999999",
		"stream-b.00000000000000000001",
		"garbage",
	} {
		got, _ := collect(t, l, last)
		assert.Empty(t, got, "lastEventID=%s", last)
	}
}

func TestReplayScopedToStream(t *testing.T) {
	l, _ := newTestLedger(t)

	aID, err := l.Append(context.Background(), "stream-a", []byte("a1"))
	require.NoError(t, err)
	_, err = l.Append(context.Background(), "stream-b", []byte("b1"))
	require.NoError(t, err)
	a2, err := l.Append(context.Background(), "stream-a", []byte("a2"))
	require.NoError(t, err)

	ids, payloads := collect(t, l, aID)
	assert.Equal(t, []string{a2}, ids)
	assert.Equal(t, []string{"a2"}, payloads)
}

func TestDropStreamRemovesKeys(t *testing.T) {
	l, mr := newTestLedger(t)

	id, err := l.Append(context.Background(), "stream-a", []byte("p1"))
	require.NoError(t, err)
	require.NoError(t, l.DropStream(context.Background(), "stream-a"))

	assert.False(t, mr.Exists("test:events:stream-a"))
	assert.False(t, mr.Exists("test:counter:stream-a"))

	got, _ := collect(t, l, id)
	assert.Empty(t, got)
}

func TestDropStreamSurvivesCanceledContext(t *testing.T) {
	l, mr := newTestLedger(t)

	_, err := l.Append(context.Background(), "stream-a", []byte("p1"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, l.DropStream(ctx, "stream-a"))
	assert.False(t, mr.Exists("test:events:stream-a"))
}
