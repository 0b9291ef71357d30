package config

import (
	"os"
	"path/filepath"
)

const defaultAPIURL = "http://localhost:8080"

const tokenFileName = ".streamdesk_token"

// APIURL returns the base URL for the StreamDesk API.
// It can be overridden with the STREAMDESK_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("STREAMDESK_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

func tokenPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, tokenFileName)
}

// SaveToken stores the JWT for subsequent commands.
func SaveToken(token string) error {
	return os.WriteFile(tokenPath(), []byte(token), 0600)
}

// LoadToken returns the stored JWT. The STREAMDESK_TOKEN environment variable
// takes precedence over the token file.
func LoadToken() (string, error) {
	if v := os.Getenv("STREAMDESK_TOKEN"); v != "" {
		return v, nil
	}
	data, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RemoveToken deletes the stored JWT, if any.
func RemoveToken() error {
	err := os.Remove(tokenPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
