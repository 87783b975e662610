package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quicktab/pkg/adapters/lifecycle"
	"github.com/aretw0/quicktab/pkg/core"
)

func TestSource_Forwards(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	in := make(chan core.Event, 2)
	in <- core.Event{Type: core.EventModify, ID: "songs/intro"}
	in <- core.Event{Type: core.EventDelete, ID: "old"}
	close(in)

	src := lifecycle.NewSource(in)
	require.NoError(t, src.Start(ctx))

	var got []string
	for e := range src.Events() {
		got = append(got, e.String())
	}
	assert.Equal(t, []string{
		core.Event{Type: core.EventModify, ID: "songs/intro"}.String(),
		core.Event{Type: core.EventDelete, ID: "old"}.String(),
	}, got)
}

func TestSource_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	src := lifecycle.NewSource(make(chan core.Event))
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("source did not close after cancel")
	}
}

func TestFilteredSource(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	in := make(chan core.Event, 3)
	in <- core.Event{Type: core.EventModify, ID: "songs/intro"}
	in <- core.Event{Type: core.EventModify, ID: "drafts/idea"}
	in <- core.Event{Type: core.EventDelete, ID: "songs/live/outro"}
	close(in)

	src, err := lifecycle.NewFilteredSource(in, "songs/**")
	require.NoError(t, err)
	require.NoError(t, src.Start(ctx))

	var ids []string
	for e := range src.Events() {
		ids = append(ids, e.(core.Event).ID)
	}
	assert.Equal(t, []string{"songs/intro", "songs/live/outro"}, ids)

	_, err = lifecycle.NewFilteredSource(in, "[bad")
	assert.Error(t, err)
}
