package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"otc_go/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Setting keys used by the CLI.
const (
	KeyToken  = "token"
	KeyAPIURL = "api_url"
)

// Store persists CLI settings (API token, API URL) across sessions in a
// per-user SQLite database.
type Store struct {
	db *gorm.DB
}

// NewStore opens (or creates) the settings database in the user config
// directory.
func NewStore() (*Store, error) {
	dbPath, err := defaultDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve DB path: %w", err)
	}
	return Open(dbPath)
}

// Open opens a store at an explicit path. Used directly by tests.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Pure Go SQLite, no cgo.
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Setting{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

func defaultDBPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "otc_go", "cli.db"), nil
}

// Set saves a setting value.
func (s *Store) Set(key, value string) error {
	return s.db.Save(&domain.Setting{Key: key, Value: value}).Error
}

// Get retrieves a setting value. A missing key returns an empty string.
func (s *Store) Get(key string) (string, error) {
	var setting domain.Setting
	err := s.db.First(&setting, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return setting.Value, err
}

// Token returns the stored API token.
func (s *Store) Token() (string, error) {
	return s.Get(KeyToken)
}

// SetToken stores the API token.
func (s *Store) SetToken(token string) error {
	return s.Set(KeyToken, token)
}

// APIURL returns the stored API URL.
func (s *Store) APIURL() (string, error) {
	return s.Get(KeyAPIURL)
}

// SetAPIURL stores the API URL.
func (s *Store) SetAPIURL(url string) error {
	return s.Set(KeyAPIURL, url)
}
