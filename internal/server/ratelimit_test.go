package server

import (
	"testing"
	"time"
)

func TestIPLimiter(t *testing.T) {
	now := time.Unix(1000, 0)
	l := newIPLimiter(1, 2)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("burst of 2 should be allowed")
	}
	if l.Allow("a") {
		t.Error("third request within the same instant should be rejected")
	}
	if !l.Allow("b") {
		t.Error("clients are limited independently")
	}

	now = now.Add(time.Second)
	if !l.Allow("a") {
		t.Error("token should refill after one second")
	}
}

func TestIPLimiter_Disabled(t *testing.T) {
	l := newIPLimiter(0, 0)
	for i := 0; i < 100; i++ {
		if !l.Allow("a") {
			t.Fatalf("request %d rejected with limiting disabled", i)
		}
	}
}

func TestIPLimiter_PrunesIdle(t *testing.T) {
	now := time.Unix(1000, 0)
	l := newIPLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.Allow("old")
	now = now.Add(clientIdleAfter + time.Second)
	l.prune(now)
	if _, ok := l.clients["old"]; ok {
		t.Error("idle client should have been pruned")
	}
}
