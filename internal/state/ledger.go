package state

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"

	"envguard/internal/hosterr"
)

// LedgerFileName is the flat database of locked prefixes, one per line.
const LedgerFileName = "locked_envs.txt"

// appDirName is the subdirectory of the user data dir holding the ledger.
const appDirName = "envguard"

// LedgerStore keeps every flagged prefix as a line in a single text file.
// Membership is whole-line exact match; a prefix containing a newline is
// unsupported. The file and its directory are created lazily on first use.
type LedgerStore struct {
	Path string
}

// NewLedgerStore places the ledger in the platform user data directory.
func NewLedgerStore() (*LedgerStore, error) {
	path, err := xdg.DataFile(filepath.Join(appDirName, LedgerFileName))
	if err != nil {
		return nil, hosterr.IO(err, "unable to create the %s app data directory", appDirName)
	}
	return &LedgerStore{Path: path}, nil
}

// NewLedgerStoreAt uses an explicit ledger path. Used by tests and by the
// host config when it overrides the data dir.
func NewLedgerStoreAt(path string) *LedgerStore {
	return &LedgerStore{Path: path}
}

// ensure creates the ledger file and its directory if missing.
func (s *LedgerStore) ensure() error {
	if _, err := os.Stat(s.Path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return hosterr.IO(err, "unable to create the ledger directory %s", filepath.Dir(s.Path))
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return hosterr.IO(err, "unable to create the ledger %s", s.Path)
	}
	return f.Close()
}

func (s *LedgerStore) read() ([]string, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, hosterr.IO(err, "unable to read the ledger %s", s.Path)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (s *LedgerStore) write(lines []string) error {
	data := strings.Join(lines, "\n")
	if err := os.WriteFile(s.Path, []byte(data), 0o644); err != nil {
		return hosterr.IO(err, "unable to write to the ledger %s", s.Path)
	}
	return nil
}

func (s *LedgerStore) IsFlagged(prefix string) (bool, error) {
	lines, err := s.read()
	if err != nil {
		return false, err
	}
	return slices.Contains(lines, prefix), nil
}

func (s *LedgerStore) Set(prefix string) error {
	lines, err := s.read()
	if err != nil {
		return err
	}
	if slices.Contains(lines, prefix) {
		return nil
	}
	return s.write(append(lines, prefix))
}

func (s *LedgerStore) Clear(prefix string) error {
	lines, err := s.read()
	if err != nil {
		return err
	}
	i := slices.Index(lines, prefix)
	if i < 0 {
		return nil
	}
	return s.write(slices.Delete(lines, i, i+1))
}

func (s *LedgerStore) Toggle(prefix string) (bool, error) {
	lines, err := s.read()
	if err != nil {
		return false, err
	}
	if i := slices.Index(lines, prefix); i >= 0 {
		return false, s.write(slices.Delete(lines, i, i+1))
	}
	return true, s.write(append(lines, prefix))
}

// Flagged returns every prefix currently in the ledger, including entries
// whose environment has since been removed. Stale entries are kept on
// purpose; they are never pruned.
func (s *LedgerStore) Flagged() ([]string, error) {
	return s.read()
}
