package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/grpansare/task-management/internal/session"
)

// The CLI equivalent of the browser's localStorage: the session is kept
// in a file under the user config dir so commands don't re-login.

const stateFileName = "session.json"

func stateFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "taskman", stateFileName), nil
}

func saveSession(sess session.Session) error {
	path, err := stateFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	// 0600: the file holds the bearer token.
	return os.WriteFile(path, b, 0o600)
}

func loadSavedSession() (session.Session, error) {
	path, err := stateFilePath()
	if err != nil {
		return session.Session{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return session.Session{}, err
	}
	var sess session.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return session.Session{}, err
	}
	if sess.Token == "" {
		return session.Session{}, errors.New("empty session file")
	}
	return sess, nil
}

func clearSavedSession() error {
	path, err := stateFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
