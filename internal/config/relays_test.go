package config

import (
	"os"
	"testing"
	"time"
)

func TestRegisterAndFindRelay(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if r := FindRelay(); r != nil {
		t.Fatalf("FindRelay() on empty registry = %+v", r)
	}

	now := time.Now()
	older := Relay{PID: os.Getpid(), Host: "localhost", Port: 7000, StartedAt: now.Add(-time.Hour)}
	newer := Relay{PID: os.Getpid(), Host: "localhost", Port: 7001, StartedAt: now}
	for _, r := range []Relay{older, newer} {
		if err := RegisterRelay(r); err != nil {
			t.Fatalf("RegisterRelay() error: %v", err)
		}
	}

	r := FindRelay()
	if r == nil || r.Port != 7001 {
		t.Fatalf("FindRelay() = %+v, want port 7001", r)
	}
}

func TestUnregisterRelay(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := RegisterRelay(Relay{PID: os.Getpid(), Port: 7000, StartedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := UnregisterRelay(os.Getpid()); err != nil {
		t.Fatal(err)
	}
	relays, err := ListRelays()
	if err != nil {
		t.Fatal(err)
	}
	if len(relays) != 0 {
		t.Errorf("expected no relays, got %d", len(relays))
	}
}

func TestListRelays_DropsDeadProcesses(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := RegisterRelay(Relay{PID: -1, Port: 7000}); err != nil {
		t.Fatal(err)
	}
	relays, err := ListRelays()
	if err != nil {
		t.Fatal(err)
	}
	if len(relays) != 0 {
		t.Errorf("dead relay was listed: %+v", relays)
	}
}
