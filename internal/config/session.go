package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	xdgAppName  = "demand-planner"
	sessionFile = "session.json"
)

type sessionData struct {
	Authorized bool      `json:"authorized"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FileSession keeps the CLI's authorized flag in a local JSON file.
type FileSession struct {
	path string
}

// NewFileSession uses path, or ~/.config/demand-planner/session.json when
// path is empty.
func NewFileSession(path string) (*FileSession, error) {
	if path == "" {
		p, err := GetSessionPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &FileSession{path: path}, nil
}

func GetSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName, sessionFile), nil
}

func (s *FileSession) Path() string {
	return s.path
}

// IsAuthorized reports false when the file does not exist yet.
func (s *FileSession) IsAuthorized(ctx context.Context) (bool, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var data sessionData
	if err := json.NewDecoder(f).Decode(&data); err != nil {
		return false, fmt.Errorf("failed to decode session: %w", err)
	}
	return data.Authorized, nil
}

func (s *FileSession) SetAuthorized(ctx context.Context, authorized bool) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open session file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sessionData{Authorized: authorized, UpdatedAt: time.Now()})
}
