// Package blob stores uploaded files on local disk and derives their
// public URLs. Paths are derived to be unique per object; an existing
// file at a derived path is a conflict, never an overwrite.
package blob

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

var ErrConflict = errors.New("object already exists at path")

type Store struct {
	Root    string
	BaseURL string
}

func NewStore(root, baseURL string) (*Store, error) {
	if root == "" {
		return nil, errors.New("blob root is required")
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, err
	}
	return &Store{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// DerivePath builds a collision-resistant storage path from the owning
// user, a random token, the current timestamp and the original file's
// extension.
func DerivePath(userID, fileName string) (string, error) {
	tok := make([]byte, 8)
	if _, err := rand.Read(tok); err != nil {
		return "", err
	}
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("%s/%s_%d%s", userID, hex.EncodeToString(tok), time.Now().UnixMilli(), ext), nil
}

// Save writes the object at path, creating parent directories. If a
// file already exists there it returns ErrConflict: derived paths are
// unique, so a collision indicates a defect.
func (s *Store) Save(p string, r io.Reader) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o700); err != nil {
		return err
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return ErrConflict
		}
		return err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return err
	}
	return f.Close()
}

func (s *Store) Open(p string) (*os.File, error) {
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// PublicURL derives the object's public URL. Deterministic, no expiry:
// objects are publicly readable by design.
func (s *Store) PublicURL(p string) string {
	return s.BaseURL + "/files/" + p
}

// resolve joins p onto the root and rejects anything escaping it.
func (s *Store) resolve(p string) (string, error) {
	if p == "" {
		return "", errors.New("empty path")
	}
	clean := filepath.Clean(filepath.FromSlash(p))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.New("invalid path")
	}
	return filepath.Join(s.Root, clean), nil
}
