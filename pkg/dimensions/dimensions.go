package dimensions

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedExtension is returned for files whose extension is not
	// in the allowed set.
	ErrUnsupportedExtension = errors.New("unsupported image extension")

	// ErrFetch is returned when an image URL cannot be downloaded.
	ErrFetch = errors.New("failed to fetch image")

	// ErrDecode is returned when image data is not a supported format.
	ErrDecode = errors.New("failed to decode image")

	// ErrInvalidDataURL is returned for malformed data URLs.
	ErrInvalidDataURL = errors.New("invalid data URL")
)

// Dimensions is an image size in pixels.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// String returns "WxH".
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// IsURL reports whether s is an absolute http or https URL with a host.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsDataURL reports whether s is a data URL.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// IsAllowedExtension reports whether path ends in one of extensions,
// ignoring case. Extensions include the leading dot.
func IsAllowedExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, allowed := range extensions {
		if strings.ToLower(allowed) == ext {
			return true
		}
	}
	return false
}

// CheckExtension returns an error wrapping ErrUnsupportedExtension if path
// is not allowed.
func CheckExtension(path string, extensions []string) error {
	if !IsAllowedExtension(path, extensions) {
		return fmt.Errorf("%w: %q (allowed: %s)", ErrUnsupportedExtension, filepath.Ext(path), strings.Join(extensions, ", "))
	}
	return nil
}

// normalizeFilePath converts file:// URLs to plain paths.
func normalizeFilePath(path string) string {
	if strings.HasPrefix(path, "file://") {
		if u, err := url.Parse(path); err == nil && u.Path != "" {
			return u.Path
		}
		return strings.TrimPrefix(path, "file://")
	}
	return path
}
