// cmd/aisfwd/events_test.go
package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/ais-forwarder/internal/journal"
	"github.com/tamzrod/ais-forwarder/internal/notify"
)

func TestEventsCommand(t *testing.T) {
	color.NoColor = true

	path := filepath.Join(t.TempDir(), "events.db")
	j, err := journal.Open(journal.Options{Path: path}, nil)
	require.NoError(t, err)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, j.Send(context.Background(), notify.Build(notify.KindStarted, "10.0.0.5:39150", "s1", "", at)))
	require.NoError(t, j.Send(context.Background(), notify.Build(notify.KindLost, "10.0.0.5:39150", "s1", "closed: peer closed", at.Add(time.Minute))))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"events", "--journal", path, "--limit", "1"})
	require.NoError(t, root.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "lost")
	assert.Contains(t, lines[0], "Lost connection to AIS source 10.0.0.5:39150: closed: peer closed")
	assert.Contains(t, lines[0], "[s1]")
}

func TestPrintEvents_Empty(t *testing.T) {
	var out bytes.Buffer
	printEvents(&out, nil)
	assert.Equal(t, "no events\n", out.String())
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "aisfwd version dev")
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--source-host", "127.0.0.1"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destination.host")
}
