package roster

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const dataURLPrefix = "data:"

// EncodePicture reads the file at path and returns it as a data URL that can
// be used directly as an image source. The media type comes from the file
// extension, falling back to content sniffing. The content itself is not
// checked to be an image.
func EncodePicture(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("roster: read picture: %w", err)
	}
	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = strings.TrimSpace(mediaType[:idx])
	}
	return dataURLPrefix + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// PictureInfo describes an encoded picture without decoding the payload.
// ok is false when value is empty or is not a base64 data URL.
func PictureInfo(value string) (mediaType string, size int, ok bool) {
	if !strings.HasPrefix(value, dataURLPrefix) {
		return "", 0, false
	}
	meta, payload, found := strings.Cut(strings.TrimPrefix(value, dataURLPrefix), ",")
	if !found {
		return "", 0, false
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", 0, false
	}
	return mediaType, base64.StdEncoding.DecodedLen(len(payload)) - padding(payload), true
}

func padding(payload string) int {
	return len(payload) - len(strings.TrimRight(payload, "="))
}
