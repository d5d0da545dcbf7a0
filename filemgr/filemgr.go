// Package filemgr stores uploaded images on local disk under ./static and
// produces a thumbnail alongside each original. Handlers treat the
// returned paths as opaque URIs.
package filemgr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Kind selects the destination folder and thumbnail size.
type Kind string

const (
	KindProduct Kind = "product"
	KindProfile Kind = "profile"

	maxUploadSize = 10 << 20
	baseDir       = "./static"
)

var thumbWidth = map[Kind]int{
	KindProduct: 300,
	KindProfile: 100,
}

var allowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}
var allowedMIMEs = []string{"image/jpeg", "image/png", "image/gif"}

var (
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrUnknownKind      = errors.New("unknown image kind")
)

func ValidKind(k string) bool {
	return Kind(k) == KindProduct || Kind(k) == KindProfile
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// SaveImageWithThumb validates, stores the original, and writes a JPEG
// thumbnail next to it. Returns the served paths of both.
func SaveImageWithThumb(file multipart.File, header *multipart.FileHeader, kind Kind) (string, string, error) {
	width, ok := thumbWidth[kind]
	if !ok {
		return "", "", ErrUnknownKind
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !contains(allowedExtensions, ext) {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidExtension, ext)
	}

	buf, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return "", "", fmt.Errorf("read upload: %w", err)
	}
	if len(buf) > maxUploadSize {
		return "", "", errors.New("file size exceeds limit")
	}

	mimeType := http.DetectContentType(buf)
	if !contains(allowedMIMEs, mimeType) {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidMIME, mimeType)
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return "", "", fmt.Errorf("decode image: %w", err)
	}

	destDir := filepath.Join(baseDir, string(kind))
	thumbDir := filepath.Join(destDir, "thumb")
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return "", "", fmt.Errorf("mkdir %s: %w", thumbDir, err)
	}

	name := uuid.NewString()
	origName := name + ext
	origPath := filepath.Join(destDir, origName)
	if err := os.WriteFile(origPath, buf, 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", origPath, err)
	}

	thumbName := name + ".jpg"
	thumbPath := filepath.Join(thumbDir, thumbName)
	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(jpeg.DefaultQuality)); err != nil {
		return "", "", fmt.Errorf("save thumbnail: %w", err)
	}

	servedOrig := fmt.Sprintf("/static/%s/%s", kind, origName)
	servedThumb := fmt.Sprintf("/static/%s/thumb/%s", kind, thumbName)
	return servedOrig, servedThumb, nil
}
