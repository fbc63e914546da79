package state

import (
	"os"
	"path/filepath"

	"envguard/internal/hosterr"
)

// SentinelStore encodes the flag as the existence of a fixed-name marker
// file directly under the environment prefix, so the flag travels with the
// environment.
type SentinelStore struct {
	Marker string
}

// NewSentinelStore returns a store using the given marker file name.
func NewSentinelStore(marker string) *SentinelStore {
	return &SentinelStore{Marker: marker}
}

func (s *SentinelStore) markerPath(prefix string) string {
	return filepath.Join(prefix, s.Marker)
}

func (s *SentinelStore) IsFlagged(prefix string) (bool, error) {
	_, err := os.Stat(s.markerPath(prefix))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, hosterr.IO(err, "unable to check marker file %s", s.markerPath(prefix))
}

func (s *SentinelStore) Set(prefix string) error {
	f, err := os.OpenFile(s.markerPath(prefix), os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return hosterr.IO(err, "unable to guard %s", prefix)
	}
	return f.Close()
}

func (s *SentinelStore) Clear(prefix string) error {
	if err := os.Remove(s.markerPath(prefix)); err != nil {
		return hosterr.IO(err, "unable to remove the guard from %s", prefix)
	}
	return nil
}

func (s *SentinelStore) Toggle(prefix string) (bool, error) {
	flagged, err := s.IsFlagged(prefix)
	if err != nil {
		return false, err
	}
	if flagged {
		return false, s.Clear(prefix)
	}
	return true, s.Set(prefix)
}

// Flagged returns nil: sentinel files live inside the environments
// themselves, so enumeration is bounded by the known-prefix set anyway.
func (s *SentinelStore) Flagged() ([]string, error) {
	return nil, nil
}
