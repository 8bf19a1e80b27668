package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	stateDir  = ".chakancha"
	stateFile = "current_session"
)

// StateFilePath returns the full path to the current session state file,
// creating the state directory (~/.chakancha) if it doesn't exist.
func StateFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	stateDirPath := filepath.Join(homeDir, stateDir)
	if err := os.MkdirAll(stateDirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}

	return filepath.Join(stateDirPath, stateFile), nil
}

// LoadCurrentSessionID loads the active session id from the local state
// file. Returns (nil, nil) when no current session exists.
func LoadCurrentSessionID() (*uuid.UUID, error) {
	filePath, err := StateFilePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	sessionIDStr := strings.TrimSpace(string(data))
	if sessionIDStr == "" {
		return nil, nil
	}

	sessionID, err := uuid.Parse(sessionIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID in state file: %w", err)
	}

	return &sessionID, nil
}

// SaveCurrentSessionID marks sessionID as the current session.
func SaveCurrentSessionID(sessionID uuid.UUID) error {
	filePath, err := StateFilePath()
	if err != nil {
		return err
	}

	if err := os.WriteFile(filePath, []byte(sessionID.String()), 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// ClearCurrentSessionID removes the current session state file.
// Idempotent - a missing file is not an error.
func ClearCurrentSessionID() error {
	filePath, err := StateFilePath()
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}

	return nil
}
