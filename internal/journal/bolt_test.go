// internal/journal/bolt_test.go
package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/ais-forwarder/internal/notify"
)

func TestStore_AppendAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "events.db")
	s, err := Open(Options{Path: path}, nil)
	require.NoError(t, err)
	defer s.Close()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	kinds := []notify.Kind{notify.KindStarted, notify.KindLost, notify.KindRestored}
	for i, k := range kinds {
		n := notify.Build(k, "10.0.0.5:39150", "sess", "", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.Send(context.Background(), n))
	}

	all, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "started", all[0].Event)
	assert.Equal(t, "lost", all[1].Event)
	assert.Equal(t, notify.UrgencyCritical, all[1].Urgency)
	assert.Equal(t, "restored", all[2].Event)
	assert.True(t, all[2].At.Equal(base.Add(2*time.Minute)))

	recent, err := List(path, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "lost", recent[0].Event)
	assert.Equal(t, "restored", recent[1].Event)
}

func TestStore_ReopenKeepsOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	s, err := Open(Options{Path: path}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Send(context.Background(), notify.Build(notify.KindStarted, "a:1", "", "", time.Now())))

	s, err = Open(Options{Path: path}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Send(context.Background(), notify.Build(notify.KindLost, "a:1", "", "eof", time.Now())))

	all, err := List(path, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "started", all[0].Event)
	assert.Contains(t, all[1].Message, "eof")
}

func TestList_MissingFile(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "none.db"), 0)
	assert.Error(t, err)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Options{}, nil)
	assert.Error(t, err)
}

func TestStore_IsSink(t *testing.T) {
	var _ notify.Sink = (*Store)(nil)
}
