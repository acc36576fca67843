package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Relay records a running `timegraph sync serve` process so views started
// later can find it without being told the address.
type Relay struct {
	PID       int       `json:"pid"`
	Host      string    `json:"host"`
	Port      int       `json:"port"`
	StartedAt time.Time `json:"started_at"`
}

func relaysPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "relays.json"), nil
}

// RegisterRelay adds r to the registry, dropping entries of dead processes.
func RegisterRelay(r Relay) error {
	path, err := relaysPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	relays, _ := readRelays(path)
	relays = liveRelays(relays)
	relays = append(relays, r)
	return writeRelays(path, relays)
}

// UnregisterRelay removes the entry of the given process.
func UnregisterRelay(pid int) error {
	path, err := relaysPath()
	if err != nil {
		return err
	}
	relays, _ := readRelays(path)
	kept := relays[:0]
	for _, r := range relays {
		if r.PID != pid {
			kept = append(kept, r)
		}
	}
	return writeRelays(path, kept)
}

// ListRelays returns the relays whose process is still alive.
func ListRelays() ([]Relay, error) {
	path, err := relaysPath()
	if err != nil {
		return nil, err
	}
	relays, err := readRelays(path)
	if err != nil {
		return nil, err
	}
	live := liveRelays(relays)
	if len(live) != len(relays) {
		_ = writeRelays(path, live)
	}
	return live, nil
}

// FindRelay returns the most recently started live relay, or nil.
func FindRelay() *Relay {
	relays, err := ListRelays()
	if err != nil || len(relays) == 0 {
		return nil
	}
	latest := relays[0]
	for _, r := range relays[1:] {
		if r.StartedAt.After(latest.StartedAt) {
			latest = r
		}
	}
	return &latest
}

func readRelays(path string) ([]Relay, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var relays []Relay
	if err := json.Unmarshal(data, &relays); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return relays, nil
}

func writeRelays(path string, relays []Relay) error {
	data, err := json.MarshalIndent(relays, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func liveRelays(relays []Relay) []Relay {
	live := make([]Relay, 0, len(relays))
	for _, r := range relays {
		if processAlive(r.PID) {
			live = append(live, r)
		}
	}
	return live
}
