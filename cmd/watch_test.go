package cmd

import (
	"testing"
	"time"
)

func TestResetDebounceDiscardsStaleTick(t *testing.T) {
	tm := time.NewTimer(time.Millisecond)
	time.Sleep(20 * time.Millisecond) // fires, tick left unconsumed

	resetDebounce(tm, 100*time.Millisecond)

	select {
	case <-tm.C:
		t.Fatal("stale tick delivered right after reset")
	case <-time.After(20 * time.Millisecond):
	}

	// The fresh window still expires normally.
	select {
	case <-tm.C:
	case <-time.After(2 * time.Second):
		t.Fatal("debounce window never fired after reset")
	}
}

func TestResetDebounceBeforeExpiry(t *testing.T) {
	tm := time.NewTimer(time.Hour)
	resetDebounce(tm, 10*time.Millisecond)

	select {
	case <-tm.C:
	case <-time.After(2 * time.Second):
		t.Fatal("reset window never fired")
	}
}
