// Package history records evaluated sources and their outcomes in SQLite.
package history

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/zeebo/blake3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	ModeProgram    = "program"
	ModeExpression = "expression"
)

// Entry is one recorded evaluation.
type Entry struct {
	ID         int64  `gorm:"primaryKey"`
	SourceHash string `gorm:"index:idx_source_hash"`
	Mode       string
	Source     string
	Result     string // bindings or value; empty on failure
	ErrorKind  string
	Error      string
	CreatedAt  time.Time
}

func (Entry) TableName() string {
	return "run_entry"
}

// Failed reports whether the run ended in an error.
func (e *Entry) Failed() bool {
	return e.ErrorKind != ""
}

// Recorder is what callers need to log runs; *Store implements it.
type Recorder interface {
	Record(entry *Entry) error
}

type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("history: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// HashSource is the blake3 digest of src, hex encoded.
func HashSource(src string) string {
	sum := blake3.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}

// Record stores entry, filling in the hash and timestamp if unset.
func (s *Store) Record(entry *Entry) error {
	if entry.SourceHash == "" {
		entry.SourceHash = HashSource(entry.Source)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := s.db.Create(entry).Error; err != nil {
		return fmt.Errorf("history: record: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	var entries []Entry
	err := s.db.Order("id DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	return entries, nil
}

// BySource returns every run of the exact source text, oldest first.
func (s *Store) BySource(src string) ([]Entry, error) {
	var entries []Entry
	err := s.db.Where("source_hash = ?", HashSource(src)).Order("id ASC").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	return entries, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
