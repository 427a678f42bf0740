package watcher

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var fired atomic.Int32

	for i := 0; i < 10; i++ {
		d.Trigger(func() { fired.Add(1) })
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("Burst of triggers should fire once, got %d", got)
	}
}

func TestDebouncerFiresAgainAfterQuiet(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var fired atomic.Int32

	d.Trigger(func() { fired.Add(1) })
	time.Sleep(60 * time.Millisecond)
	d.Trigger(func() { fired.Add(1) })
	time.Sleep(60 * time.Millisecond)

	if got := fired.Load(); got != 2 {
		t.Errorf("Separated triggers should each fire, got %d", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var fired atomic.Int32

	d.Trigger(func() { fired.Add(1) })
	d.Cancel()

	time.Sleep(80 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("Cancelled trigger should not fire, got %d", got)
	}
}

func TestDebouncerDuration(t *testing.T) {
	d := NewDebouncer(123 * time.Millisecond)
	if d.Duration() != 123*time.Millisecond {
		t.Errorf("Duration = %v, want 123ms", d.Duration())
	}
}

func TestDebouncerZeroUsesDefaultQuiet(t *testing.T) {
	d := NewDebouncer(0)
	if d.Duration() != DefaultQuiet {
		t.Errorf("Duration = %v, want %v", d.Duration(), DefaultQuiet)
	}
}
