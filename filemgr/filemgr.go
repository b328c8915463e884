package filemgr

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"forkful/utils"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	UploadDir = "./static/uploads"
	ThumbDir  = "./static/uploads/thumbs"

	// MaxPhotoBytes caps recipe photo uploads at 5 MB, checked before
	// anything is written.
	MaxPhotoBytes = 5 << 20

	thumbWidth = 480
)

var (
	ErrNotAnImage = errors.New("unsupported image type")
	ErrTooLarge   = errors.New("image exceeds the 5 MB limit")
)

// StaticBase is the public URL prefix under which UploadDir is served.
func StaticBase() string {
	if v := os.Getenv("STATIC_BASE"); v != "" {
		return strings.TrimRight(v, "/")
	}
	return "/static"
}

// ValidatePhoto rejects non-image content types and oversized files
// before any bytes are stored.
func ValidatePhoto(header *multipart.FileHeader) error {
	if !utils.SupportedImageTypes[header.Header.Get("Content-Type")] {
		return ErrNotAnImage
	}
	if header.Size > MaxPhotoBytes {
		return ErrTooLarge
	}
	return nil
}

// PhotoFilename builds a collision-resistant name from the upload
// timestamp, the slugified recipe title, and a short random suffix.
func PhotoFilename(title, ext string) string {
	stamp := time.Now().UTC().Format("20060102T150405")
	return fmt.Sprintf("%s-%s-%s%s", stamp, utils.Slugify(title), uuid.NewString()[:8], ext)
}

// SavePhoto stores an uploaded recipe photo and a width-capped thumbnail.
// It returns storage-relative paths ("uploads/..." / "uploads/thumbs/...")
// suitable for Recipe.LocalImagePath. The thumbnail is best-effort: a
// decode failure leaves the original in place and returns an empty thumb
// path.
func SavePhoto(file multipart.File, header *multipart.FileHeader, title string) (string, string, error) {
	if err := ValidatePhoto(header); err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(ThumbDir, 0755); err != nil {
		return "", "", err
	}

	name := PhotoFilename(title, filepath.Ext(header.Filename))
	dstPath := filepath.Join(UploadDir, name)

	out, err := os.Create(dstPath)
	if err != nil {
		return "", "", err
	}
	defer out.Close()

	if _, err = io.Copy(out, io.LimitReader(file, MaxPhotoBytes)); err != nil {
		return "", "", err
	}

	localPath := "uploads/" + name
	thumbPath := ""
	if img, err := imaging.Open(dstPath); err == nil {
		thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
		if err := imaging.Save(thumb, filepath.Join(ThumbDir, name)); err == nil {
			thumbPath = "uploads/thumbs/" + name
		}
	}

	return localPath, thumbPath, nil
}

// ResolveImageURL computes the display-ready URL for a recipe image.
// An absolute stored URL wins; otherwise a URL is built from the
// storage-relative path under the public static base; otherwise empty,
// meaning the presentation layer renders a placeholder.
func ResolveImageURL(imageURL, localPath string) string {
	if strings.HasPrefix(imageURL, "http") {
		return imageURL
	}
	if localPath != "" {
		return StaticBase() + "/" + strings.TrimLeft(localPath, "/")
	}
	return ""
}
