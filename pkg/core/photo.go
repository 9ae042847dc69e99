package core

import (
	"encoding/base64"
	"net/http"
	"strings"
)

var photoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// PhotoFromBytes sniffs the image type and encodes it as a data URL.
// Only JPEG and PNG are accepted.
func PhotoFromBytes(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrMissingPhoto
	}
	contentType := http.DetectContentType(data)
	if !photoTypes[contentType] {
		return "", ErrUnsupportedPhoto
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// CheckPhoto validates a photo reference received from a client. Data URLs
// must carry a JPEG or PNG media type; any other reference is opaque and
// passes through.
func CheckPhoto(photo string) error {
	if photo == "" {
		return ErrMissingPhoto
	}
	rest, ok := strings.CutPrefix(photo, "data:")
	if !ok {
		return nil
	}
	mediaType, _, _ := strings.Cut(rest, ";")
	if !photoTypes[mediaType] {
		return ErrUnsupportedPhoto
	}
	return nil
}
