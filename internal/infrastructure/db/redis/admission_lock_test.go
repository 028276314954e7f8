package redis

import (
	"testing"
	"time"
)

func TestAdmissionLock_Key(t *testing.T) {
	l := NewAdmissionLock(nil, 0)

	if got := l.key("64f1c2", "2026-10-16"); got != "admit:64f1c2:2026-10-16" {
		t.Errorf("unexpected key %q", got)
	}
	if l.ttl != defaultLockTTL {
		t.Errorf("expected default ttl, got %s", l.ttl)
	}
	if NewAdmissionLock(nil, time.Second).ttl != time.Second {
		t.Errorf("explicit ttl ignored")
	}
}
