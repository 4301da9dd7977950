// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

// Package upload stores client document files on disk. Image uploads are
// re-encoded (stripping EXIF) and get a thumbnail; other file types are
// written as-is.
package upload

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// MaxUploadSize caps a single document upload.
const MaxUploadSize = 20 << 20 // 20 MiB

const thumbSize = 320

var allowedTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"text/plain":      ".txt",
	"application/zip": ".zip",
}

// Result describes a stored upload.
type Result struct {
	FileURL  string
	ThumbURL string
	FileType string
	Size     int64
}

// Store writes uploads under a base directory, served at a URL prefix.
type Store struct {
	baseDir   string
	urlPrefix string
}

// NewStore creates an upload store. urlPrefix is the public path the base
// directory is served under, e.g. "/uploads".
func NewStore(baseDir, urlPrefix string) *Store {
	return &Store{baseDir: baseDir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}
}

// Save reads the upload, validates its type by content sniffing, and writes
// it under a fresh UUID directory.
func (s *Store) Save(r io.Reader, filename string) (*Result, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("upload exceeds %d bytes", MaxUploadSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty upload")
	}

	mimeType := sniffType(data)
	if _, ok := allowedTypes[mimeType]; !ok {
		return nil, fmt.Errorf("unsupported file type %q", mimeType)
	}

	id := uuid.NewString()
	safeName := sanitizeFilename(filename, allowedTypes[mimeType])

	result := &Result{FileType: mimeType, Size: int64(len(data))}

	if strings.HasPrefix(mimeType, "image/") {
		data, err = normalizeImage(data, mimeType)
		if err != nil {
			return nil, err
		}
		result.Size = int64(len(data))

		thumb, err := makeThumbnail(data)
		if err == nil {
			thumbName := "thumb_" + strings.TrimSuffix(safeName, filepath.Ext(safeName)) + ".jpg"
			if _, err := s.write(id, thumbName, thumb); err == nil {
				result.ThumbURL = s.urlFor(id, thumbName)
			}
		}
	}

	if _, err := s.write(id, safeName, data); err != nil {
		return nil, err
	}
	result.FileURL = s.urlFor(id, safeName)
	return result, nil
}

// Delete removes the directory holding a previously saved upload. fileURL
// must be a URL returned by Save.
func (s *Store) Delete(fileURL string) error {
	rel := strings.TrimPrefix(fileURL, s.urlPrefix+"/")
	id := strings.SplitN(rel, "/", 2)[0]
	if id == "" || strings.Contains(id, "..") {
		return fmt.Errorf("invalid file url %q", fileURL)
	}
	dir := filepath.Join(s.baseDir, id)
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}

func (s *Store) write(id, name string, data []byte) (string, error) {
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path, nil
}

func (s *Store) urlFor(id, name string) string {
	return s.urlPrefix + "/" + id + "/" + name
}

func sniffType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// sanitizeFilename strips any path components and forces the extension that
// matches the sniffed content type.
func sanitizeFilename(filename, ext string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == ".." {
		base = "file"
	}
	return base + ext
}

// normalizeImage decodes, applies EXIF orientation, and re-encodes the image
// so stored files carry no metadata. WebP input is re-encoded as JPEG.
func normalizeImage(data []byte, mimeType string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	img = applyOrientation(img, exifOrientation(bytes.NewReader(data)))

	var buf bytes.Buffer
	switch mimeType {
	case "image/png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func makeThumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	thumb := imaging.Fit(img, thumbSize, thumbSize, imaging.Lanczos)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
