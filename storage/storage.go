// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.mills.io/bitcask/v2"

	"github.com/danielhkuo/gatherly/auth"
)

// MaxFileSize is the upload cap in bytes.
const MaxFileSize = 50 * 1024 * 1024

// ErrNotFound is returned when a blob does not exist.
var ErrNotFound = errors.New("file not found")

// ErrTooLarge is returned for uploads over MaxFileSize.
var ErrTooLarge = fmt.Errorf("file exceeds the %d byte limit", MaxFileSize)

// ErrUnsupportedType is returned for content types outside the allow list.
var ErrUnsupportedType = errors.New("unsupported file type")

// allowedTypes maps accepted content types to their canonical extension.
var allowedTypes = map[string]string{
	"application/pdf": ".pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store keeps uploaded file contents in a bitcask datastore on disk.
// Metadata lives in the relational store; this only holds bytes by name.
type Store struct {
	be *bitcask.Bitcask
}

// Open opens or creates the blob datastore at path.
func Open(path string) (*Store, error) {
	be, err := bitcask.Open(filepath.Join(path, "blobs.db"),
		bitcask.WithMaxValueSize(MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}
	return &Store{be: be}, nil
}

func (s *Store) Close() error {
	return s.be.Close()
}

func (s *Store) Put(name string, data []byte) error {
	if err := s.be.Put(bitcask.Key(name), data); err != nil {
		return fmt.Errorf("failed to store blob %s: %w", name, err)
	}
	return nil
}

func (s *Store) Get(name string) ([]byte, error) {
	data, err := s.be.Get(bitcask.Key(name))
	if err != nil {
		if errors.Is(err, bitcask.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", name, err)
	}
	return data, nil
}

func (s *Store) Delete(name string) error {
	if err := s.be.Delete(bitcask.Key(name)); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", name, err)
	}
	return nil
}

func (s *Store) Exists(name string) bool {
	return s.be.Has(bitcask.Key(name))
}

// Validate checks an upload against the size cap and content-type allow
// list before it is stored.
func Validate(contentType string, size int64) error {
	if size > MaxFileSize {
		return ErrTooLarge
	}
	if _, ok := allowedTypes[contentType]; !ok {
		return ErrUnsupportedType
	}
	return nil
}

// UniqueName builds a stored name that cannot collide: millisecond
// timestamp, a random suffix, and the original extension (falling back to
// the content type's canonical one).
func UniqueName(originalName, contentType string) (string, error) {
	suffix, err := auth.GenerateID(4)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = allowedTypes[contentType]
	}
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, ext), nil
}

// Extractor pulls plain text out of a document. Parsing is out of scope
// here, so the default implementation extracts nothing.
type Extractor interface {
	// Extract returns the text content of the document, or an error when
	// the document cannot be parsed. Unsupported types return ("", nil).
	Extract(name, contentType string, data []byte) (string, error)
}

// NoopExtractor extracts nothing and never fails.
type NoopExtractor struct{}

func (NoopExtractor) Extract(name, contentType string, data []byte) (string, error) {
	return "", nil
}
