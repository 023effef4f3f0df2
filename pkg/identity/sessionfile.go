package identity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SessionFile is the name of the cached session inside the config directory.
const SessionFile = "session.json"

// sessionFromFile reads a Session from a JSON file.
func sessionFromFile(path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s := &Session{}
	if err := json.NewDecoder(f).Decode(s); err != nil {
		return nil, fmt.Errorf("failed to decode session from file %s: %w", path, err)
	}
	return s, nil
}

// saveSession writes s to path, readable by the owner only.
func saveSession(path string, s *Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache session to %s: %w", path, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(s)
}

func removeSession(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete session file '%s': %w", path, err)
	}
	return nil
}
