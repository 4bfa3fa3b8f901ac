package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const ProfileFile = "user_profile.json"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileCorrupt  = errors.New("profile is unreadable")
	ErrInvalidUserID   = errors.New("invalid user id")
)

// Repository stores one profile per user. Get returns ErrProfileNotFound when
// the user has none yet and ErrProfileCorrupt when one exists but cannot be
// read; only the former is safe to replace with a fresh profile.
type Repository interface {
	Get(userID string) (*UserProfile, error)
	Save(p *UserProfile) error
}

type fileRepository struct {
	dir string
}

func NewFileRepository(dir string) Repository {
	return &fileRepository{dir: dir}
}

// UserDir is the per-user directory holding the profile and the event log.
func UserDir(root, userID string) (string, error) {
	if userID == "" || userID == "." || userID == ".." || strings.ContainsAny(userID, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidUserID, userID)
	}
	return filepath.Join(root, userID), nil
}

func (r *fileRepository) Get(userID string) (*UserProfile, error) {
	dir, err := UserDir(r.dir, userID)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(filepath.Join(dir, ProfileFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrProfileCorrupt, err)
	}

	var p UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileCorrupt, err)
	}
	p.UserID = userID
	p.normalize()
	return &p, nil
}

// Save replaces the profile document through a temp file and rename, so a
// concurrent reader sees either the old or the new version.
func (r *fileRepository) Save(p *UserProfile) error {
	dir, err := UserDir(r.dir, p.UserID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}

	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ProfileFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp profile: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write profile: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close profile: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, ProfileFile)); err != nil {
		return fmt.Errorf("replace profile: %w", err)
	}
	return nil
}
