package fs

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/quicktab/pkg/core"
)

func TestDebouncer_LastEventWins(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)

	var mu sync.Mutex
	var got []core.Event
	record := func(e core.Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	}

	d.add(core.Event{Type: core.EventCreate, ID: "a"}, record)
	d.add(core.Event{Type: core.EventModify, ID: "a"}, record)
	d.add(core.Event{Type: core.EventCreate, ID: "b"}, record)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, 2*time.Second, 10*time.Millisecond)

	d.stopAndWait(time.Second)

	mu.Lock()
	defer mu.Unlock()
	byID := map[string]core.EventType{}
	for _, e := range got {
		byID[e.ID] = e.Type
	}
	assert.Equal(t, map[string]core.EventType{"a": core.EventModify, "b": core.EventCreate}, byID)
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	d := newDebouncer(time.Hour)
	called := false
	d.add(core.Event{ID: "a"}, func(core.Event) { called = true })

	d.stopAndWait(time.Second)
	d.add(core.Event{ID: "b"}, func(core.Event) { called = true })

	assert.False(t, called)
	assert.Empty(t, d.pending)
}
