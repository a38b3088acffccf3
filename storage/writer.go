// Package storage lays out downloaded transcripts on disk.
//
// Layout:
//
//	<base>/term_<NN>/session_<NNN>[_<first-date>]/
//	    session_info.json
//	    transcript_<date>.pdf
//	    statements_<date>/<NNN>_<speaker>.html
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/s0up4200/sejmscraper/sejm"
)

const (
	sessionInfoFile = "session_info.json"
	dirPerm         = 0o755
	filePerm        = 0o644
)

// ErrInvalidSession is returned for sessions without a positive number
var ErrInvalidSession = errors.New("session number must be positive")

// Writer persists API payloads under a base directory. It keeps no state
// between calls.
type Writer struct {
	baseDir string
	logger  zerolog.Logger
}

// NewWriter creates a Writer rooted at baseDir, creating it if needed
func NewWriter(baseDir string, logger zerolog.Logger) (*Writer, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if err := os.MkdirAll(baseDir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{baseDir: baseDir, logger: logger}, nil
}

// BaseDir returns the root output directory
func (w *Writer) BaseDir() string {
	return w.baseDir
}

// TermDir returns the directory of a term without creating it
func (w *Writer) TermDir(term int) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("term_%02d", term))
}

// SessionDir returns the directory of a session, creating it if needed.
//
// The first known date is part of the name. A directory that already exists
// for the session number is reused as-is, even when its date suffix no longer
// matches the session's current first date; directories are never renamed.
func (w *Writer) SessionDir(term int, session sejm.Session) (string, error) {
	if session.Number <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidSession, session.Number)
	}

	termDir := w.TermDir(term)
	if err := os.MkdirAll(termDir, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create term directory: %w", err)
	}

	prefix := fmt.Sprintf("session_%03d", session.Number)
	name := prefix
	if first := session.FirstDate(); first != "" {
		name += "_" + first
	}

	existing, err := findSessionDir(termDir, prefix)
	if err != nil {
		return "", err
	}
	if existing != "" {
		if existing != name {
			w.logger.Warn().
				Int("session", session.Number).
				Str("existing", existing).
				Str("expected", name).
				Msg("Session directory date differs from current first date, keeping existing directory")
		}
		return filepath.Join(termDir, existing), nil
	}

	dir := filepath.Join(termDir, name)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}
	w.logger.Debug().Str("dir", dir).Msg("Created session directory")
	return dir, nil
}

// findSessionDir returns the name of an existing directory for the session
// prefix, or "" when there is none
func findSessionDir(termDir, prefix string) (string, error) {
	entries, err := os.ReadDir(termDir)
	if err != nil {
		return "", fmt.Errorf("failed to read term directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == prefix || strings.HasPrefix(name, prefix+"_") {
			return name, nil
		}
	}
	return "", nil
}

// SavePDF writes the whole-day transcript, replacing any previous file
func (w *Writer) SavePDF(term int, session sejm.Session, date string, content []byte) (string, error) {
	dir, err := w.SessionDir(term, session)
	if err != nil {
		w.logger.Error().Err(err).Str("date", date).Msg("Failed to save PDF transcript")
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("transcript_%s.pdf", date))
	if err := os.WriteFile(path, content, filePerm); err != nil {
		w.logger.Error().Err(err).Str("date", date).Msg("Failed to save PDF transcript")
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.logger.Info().Str("path", path).Msg("Saved PDF transcript")
	return path, nil
}

// SaveSessionInfo writes the session detail record verbatim as indented JSON
func (w *Writer) SaveSessionInfo(term int, session sejm.Session, raw json.RawMessage) (string, error) {
	dir, err := w.SessionDir(term, session)
	if err != nil {
		w.logger.Error().Err(err).Int("session", session.Number).Msg("Failed to save session info")
		return "", err
	}

	data, err := indentJSON(session, raw)
	if err != nil {
		w.logger.Error().Err(err).Int("session", session.Number).Msg("Failed to save session info")
		return "", err
	}

	path := filepath.Join(dir, sessionInfoFile)
	if err := os.WriteFile(path, data, filePerm); err != nil {
		w.logger.Error().Err(err).Int("session", session.Number).Msg("Failed to save session info")
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.logger.Debug().Str("path", path).Msg("Saved session info")
	return path, nil
}

func indentJSON(session sejm.Session, raw json.RawMessage) ([]byte, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		data, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode session info: %w", err)
		}
		return append(data, '\n'), nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to format session info: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
