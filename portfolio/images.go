package portfolio

import (
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/daffadev/pamer-backend/storage"
)

// ImageFile is an uploaded preview image waiting to be stored.
type ImageFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Cleanup reports the outcome of a best-effort image removal. A failed removal never
// aborts the record mutation that triggered it; Err only tells the caller it happened.
type Cleanup struct {
	Attempted bool
	Key       string
	Err       error
}

// ObjectKey names an uploaded object "<unix-millis>-<token>.<ext>", where ext is whatever
// follows the last dot of the original file name (the whole name when there is no dot).
func ObjectKey(now time.Time, token, filename string) string {
	ext := filename
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = filename[i+1:]
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + token + "." + ext
}

// RandomToken returns a short random base36 string.
func RandomToken() string {
	return strconv.FormatUint(rand.Uint64(), 36)
}

// ObjectPathFromURL extracts the object key from a public image URL of the given bucket.
// ok is false for URLs hosted elsewhere, which are never removed.
func ObjectPathFromURL(imageURL, bucket string) (key string, ok bool) {
	_, key, found := strings.Cut(imageURL, storage.PublicPathPrefix+bucket+"/")
	if !found || key == "" {
		return "", false
	}
	return key, true
}
