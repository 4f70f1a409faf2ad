package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	UserID    string
	UserFile  string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("SKETCH_SERVER", "http://localhost:8080"),
		UserID:    os.Getenv("SKETCH_USER"),
		UserFile:  getEnvOrDefault("SKETCH_USER_FILE", defaultUserFile()),
		Output:    "text",
		Verbose:   false,
	}
}

// LoadUserID loads the user id from file if not already set. A new id is
// generated and saved on first use.
func (c *Config) LoadUserID() error {
	if c.UserID != "" {
		return nil
	}

	data, err := os.ReadFile(c.UserFile)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			c.UserID = id
			return nil
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	return c.SaveUserID(uuid.NewString())
}

// SaveUserID saves the user id to the user file
func (c *Config) SaveUserID(id string) error {
	c.UserID = id

	dir := filepath.Dir(c.UserFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.UserFile, []byte(id), 0600)
}

func defaultUserFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sketch/user"
	}
	return filepath.Join(home, ".sketch", "user")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
