// Package uploads stores listing photos and profile pictures in object
// storage and produces the resized listing-photo variants.
package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/infrastructure/imaging"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/infrastructure/storage"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"

	"github.com/rs/zerolog/log"
)

// Storage directories.
const (
	DirPropertyFiles = "property-files"
	DirProfilePhotos = "user-profile-photos"
)

const (
	MsgUploadFailed = "Failed to upload file"
	MaxFileSize     = 10 << 20
)

// Upload is one incoming file.
type Upload struct {
	FileName string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// FromMultipart adapts a multipart header.
func FromMultipart(fh *multipart.FileHeader) Upload {
	return Upload{
		FileName: fh.Filename,
		Size:     fh.Size,
		Open:     func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// StoredImage is an uploaded listing photo and its resized copies.
type StoredImage struct {
	ImageKey string            `json:"image_key"`
	ImageURL string            `json:"image_url"`
	Variants map[string]string `json:"variants"`
}

// RemoveResult reports one key of a remove request.
type RemoveResult struct {
	Key     string `json:"key"`
	Removed bool   `json:"removed"`
}

type Service struct {
	Store    storage.ObjectStore
	AssetURL string
	now      func() time.Time
}

func NewService(store storage.ObjectStore, assetURL string) *Service {
	return &Service{Store: store, AssetURL: assetURL, now: time.Now}
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitize(name string) string {
	name = unsafeChars.ReplaceAllString(path.Base(strings.ReplaceAll(name, "\\", "/")), "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		return "file"
	}
	return name
}

func (s *Service) stamp(name string) string {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return fmt.Sprintf("%d-%s", now().UnixMilli(), sanitize(name))
}

func read(u Upload) ([]byte, error) {
	if u.Size > MaxFileSize {
		return nil, apperr.Field("images", fmt.Sprintf("must be at most %d MB", MaxFileSize>>20))
	}
	rc, err := u.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, apperr.Field("images", fmt.Sprintf("must be at most %d MB", MaxFileSize>>20))
	}
	return data, nil
}

func (s *Service) put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := s.Store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return apperr.Upstream(MsgUploadFailed, err)
	}
	return nil
}

// UploadImages stores each photo at property-files/<basename>/<filename> and
// its preset variants as <preset>.jpeg in the same directory.
func (s *Service) UploadImages(ctx context.Context, files []Upload) ([]StoredImage, error) {
	if len(files) == 0 {
		return nil, apperr.Field("images", "is required")
	}
	out := make([]StoredImage, 0, len(files))
	for _, f := range files {
		data, err := read(f)
		if err != nil {
			return nil, err
		}
		img, err := imaging.Decode(data)
		if errors.Is(err, imaging.ErrTooLarge) {
			return nil, apperr.Field("images", fmt.Sprintf("must be at most %d megapixels", imaging.MaxPixels/1_000_000))
		}
		if err != nil {
			return nil, apperr.Field("images", "must be a JPEG, PNG or WebP image")
		}
		variants, err := imaging.Variants(img)
		if err != nil {
			return nil, err
		}

		fileName := s.stamp(f.FileName)
		dir := path.Join(DirPropertyFiles, strings.TrimSuffix(fileName, path.Ext(fileName)))
		key := path.Join(dir, fileName)
		if err := s.put(ctx, key, data, http.DetectContentType(data)); err != nil {
			return nil, err
		}
		stored := StoredImage{ImageKey: key, ImageURL: storage.PublicURL(s.AssetURL, key), Variants: make(map[string]string, len(variants))}
		for _, v := range variants {
			vkey := path.Join(dir, v.FileName())
			if err := s.put(ctx, vkey, v.Data, "image/jpeg"); err != nil {
				return nil, err
			}
			stored.Variants[v.Preset.Name] = storage.PublicURL(s.AssetURL, vkey)
		}
		out = append(out, stored)
	}
	return out, nil
}

// UploadFile stores a single file under dir and returns its key.
func (s *Service) UploadFile(ctx context.Context, dir string, f Upload) (string, error) {
	data, err := read(f)
	if err != nil {
		return "", err
	}
	key := path.Join(dir, s.stamp(f.FileName))
	if err := s.put(ctx, key, data, http.DetectContentType(data)); err != nil {
		return "", err
	}
	return key, nil
}

// Remove deletes one object, logging failures.
func (s *Service) Remove(ctx context.Context, key string) bool {
	if err := s.Store.Remove(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("remove object")
		return false
	}
	return true
}

// RemoveImages deletes listing photos and their variants. Keys outside the
// listing photo directory are refused.
func (s *Service) RemoveImages(ctx context.Context, keys []string) ([]RemoveResult, error) {
	if len(keys) == 0 {
		return nil, apperr.Field("keys", "is required")
	}
	out := make([]RemoveResult, 0, len(keys))
	for i, key := range keys {
		key = strings.Trim(strings.TrimSpace(key), "/")
		if !strings.HasPrefix(key, DirPropertyFiles+"/") || strings.Contains(key, "..") {
			return nil, apperr.Field(fmt.Sprintf("keys[%d]", i), "is not a listing image")
		}
		removed := s.Remove(ctx, key)
		dir := path.Dir(key)
		if dir != DirPropertyFiles {
			for _, p := range imaging.Presets {
				vkey := path.Join(dir, p.Name+".jpeg")
				if vkey != key {
					s.Remove(ctx, vkey)
				}
			}
		}
		out = append(out, RemoveResult{Key: key, Removed: removed})
	}
	return out, nil
}
