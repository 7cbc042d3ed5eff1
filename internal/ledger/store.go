package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wonny/etfscan/pkg/logger"
)

// Store reads and writes the ledger file.
// SSOT: ledger I/O happens here only.
type Store struct {
	path   string
	logger *logger.Logger
}

// NewStore creates a Store for the given ledger path.
func NewStore(path string, log *logger.Logger) *Store {
	return &Store{
		path:   path,
		logger: log.WithField("module", "ledger"),
	}
}

// Load reads the ledger from disk. An absent or unparsable file starts
// an empty ledger; losing a corrupt file's content is preferable to
// aborting every future run.
func (s *Store) Load() Ledger {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithError(err).Warn("Ledger unreadable, starting empty")
		}
		return Ledger{}
	}

	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		s.logger.WithError(err).Warn("Ledger malformed, starting empty")
		return Ledger{}
	}
	if l == nil {
		l = Ledger{}
	}

	return l
}

// Save writes the full ledger as one atomic overwrite: temp file in the
// same directory, then rename. A crashed run never leaves a truncated
// ledger behind.
func (s *Store) Save(l Ledger) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".portfolio-*.json")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close ledger: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace ledger: %w", err)
	}

	s.logger.WithField("positions", len(l)).Debug("Ledger saved")
	return nil
}
