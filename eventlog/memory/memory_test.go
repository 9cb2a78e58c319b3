package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchhub/websearch-mcp-go/eventlog"
)

func collect(t *testing.T, l eventlog.Ledger, lastEventID string) (ids []string, payloads []string) {
	t.Helper()
	err := l.ReplayAfter(context.Background(), lastEventID, func(_ context.Context, id string, payload []byte) error {
		ids = append(ids, id)
		payloads = append(payloads, string(payload))
		return nil
	})
	require.NoError(t, err)
	return ids, payloads
}

func TestAppendAssignsOrderedIDs(t *testing.T) {
	t.Parallel()

	l := New()
	var prev string
	for i := 0; i < 5; i++ {
		id, err := l.Append(context.Background(), "stream-a", []byte(fmt.Sprintf("p%d", i)))
		require.NoError(t, err)
		streamID, ok := eventlog.SplitEventID(id)
		require.True(t, ok)
		assert.Equal(t, "stream-a", streamID)
		if prev != "" {
			assert.Greater(t, id, prev, "ids must ascend lexicographically")
		}
		prev = id
	}
}

func TestReplayAfter(t *testing.T) {
	t.Parallel()

	l := New()
	var ids []string
	for i := 1; i <= 4; i++ {
		id, err := l.Append(context.Background(), "stream-a", []byte(fmt.Sprintf("p%d", i)))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	got, payloads := collect(t, l, ids[1])
	assert.Equal(t, ids[2:], got)
	assert.Equal(t, []string{"p3", "p4"}, payloads)

	// Replay after the newest id yields nothing.
	got, _ = collect(t, l, ids[3])
	assert.Empty(t, got)
}

func TestReplayUnknownIDYieldsNothing(t *testing.T) {
	t.Parallel()

	l := New()
	_, err := l.Append(context.Background(), "stream-a", []byte("p1"))
	require.NoError(t, err)

	for _, last := range []string{
		"stream-a.99999999999999999999", // stream known, id not
		"stream-b.00000000000000000001", // stream unknown
		"not-a-composed-id",             // malformed
	} {
		got, _ := collect(t, l, last)
		assert.Empty(t, got, "lastEventID=%s", last)
	}
}

func TestReplayIsScopedToOneStream(t *testing.T) {
	t.Parallel()

	l := New()
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

func TestDropStream(t *testing.T) {
	t.Parallel()

	l := New()
	id, err := l.Append(context.Background(), "stream-a", []byte("p1"))
	require.NoError(t, err)
	require.NoError(t, l.DropStream(context.Background(), "stream-a"))

	got, _ := collect(t, l, id)
	assert.Empty(t, got)

	// A new stream with the same name restarts its counter.
	id2, err := l.Append(context.Background(), "stream-a", []byte("p1"))
	require.NoError(t, err)
	assert.Equal(t, id, id2)
}

func TestSinkErrorStopsReplay(t *testing.T) {
	t.Parallel()

	l := New()
	first, err := l.Append(context.Background(), "stream-a", []byte("p1"))
	require.NoError(t, err)
	for i := 2; i <= 3; i++ {
		_, err := l.Append(context.Background(), "stream-a", []byte(fmt.Sprintf("p%d", i)))
		require.NoError(t, err)
	}

	calls := 0
	err = l.ReplayAfter(context.Background(), first, func(context.Context, string, []byte) error {
		calls++
		return fmt.Errorf("sink broke")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
