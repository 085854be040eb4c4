package storage

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds the allowed size")
	ErrUnsupportedType = errors.New("only jpeg, png and gif images are allowed")
)

// Profile describes one kind of upload: where it lands and how large it may be
type Profile struct {
	Dir      string
	Prefix   string
	MaxBytes int64
}

func AvatarProfile(maxBytes int64) Profile {
	return Profile{Dir: "avatars", Prefix: "avatar", MaxBytes: maxBytes}
}

func PropertyImageProfile(maxBytes int64) Profile {
	return Profile{Dir: "properties", Prefix: "property", MaxBytes: maxBytes}
}

// FileStore persists uploaded images and releases them by reference.
type FileStore interface {
	Save(profile Profile, fh *multipart.FileHeader) (string, error)
	Remove(ref string) error
}

var allowedTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/gif":  {".gif"},
}

// LocalStore keeps files under Root and hands out references under PublicPrefix
type LocalStore struct {
	Root         string
	PublicPrefix string
}

func NewLocalStore(root, publicPrefix string) *LocalStore {
	return &LocalStore{
		Root:         root,
		PublicPrefix: strings.TrimRight(publicPrefix, "/"),
	}
}

// Save validates the upload by extension and content and writes it to disk.
// The returned reference looks like /uploads/avatars/avatar-1700000000000-123.png
func (s *LocalStore) Save(profile Profile, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", errors.New("no file provided")
	}
	if profile.MaxBytes > 0 && fh.Size > profile.MaxBytes {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open upload: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("storage: detect type: %w", err)
	}
	if !extensionMatches(mtype, ext) {
		return "", ErrUnsupportedType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("storage: rewind upload: %w", err)
	}

	dir := filepath.Join(s.Root, profile.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}

	name := fmt.Sprintf("%s-%d-%d%s", profile.Prefix, time.Now().UnixMilli(), rand.IntN(1e9), ext)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}

	// Size header can lie; cap the copy as well
	limit := profile.MaxBytes
	if limit <= 0 {
		limit = fh.Size
	}
	written, err := io.Copy(dst, io.LimitReader(src, limit+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > limit {
		err = ErrFileTooLarge
	}
	if err != nil {
		os.Remove(filepath.Join(dir, name))
		if errors.Is(err, ErrFileTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("storage: write file: %w", err)
	}

	return path.Join(s.PublicPrefix, profile.Dir, name), nil
}

// Remove deletes the file behind ref. References outside this store and
// files that are already gone are ignored.
func (s *LocalStore) Remove(ref string) error {
	p, ok := s.resolve(ref)
	if !ok {
		return nil
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: remove %s: %w", ref, err)
	}
	return nil
}

func (s *LocalStore) resolve(ref string) (string, bool) {
	if ref == "" || !strings.HasPrefix(ref, s.PublicPrefix+"/") {
		return "", false
	}
	rel := path.Clean(strings.TrimPrefix(ref, s.PublicPrefix+"/"))
	if rel == "." || strings.HasPrefix(rel, "..") || path.IsAbs(rel) {
		return "", false
	}
	return filepath.Join(s.Root, filepath.FromSlash(rel)), true
}

func extensionMatches(mtype *mimetype.MIME, ext string) bool {
	for mime, exts := range allowedTypes {
		if !mtype.Is(mime) {
			continue
		}
		for _, e := range exts {
			if e == ext {
				return true
			}
		}
	}
	return false
}
