package flow

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"foodlog/internal/models"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/crypto/blake2b"
)

const (
	imageMimePrefix = "image/"
	genericMimeType = "application/octet-stream"
	dataURIPrefix   = "data:"
	base64Marker    = ";base64,"
)

var errMalformedDataURI = errors.New("malformed data URI: expected data:<mime>;base64,<payload>")

// ImageFile is a user-supplied file as received from the picker or a drop.
type ImageFile struct {
	Name        string
	ContentType string // as declared by the client; may be empty
	Data        []byte
}

// MimeType returns the declared media type without parameters. A missing
// or generic declaration falls back to sniffing the bytes.
func (f *ImageFile) MimeType() string {
	declared := stripParams(f.ContentType)
	if declared != "" && declared != genericMimeType {
		return declared
	}
	return stripParams(mimetype.Detect(f.Data).String())
}

// IsImageMime reports whether mt names an image media type.
func IsImageMime(mt string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mt)), imageMimePrefix)
}

// encodeImage renders the file as a data URI along with its metadata.
func encodeImage(f *ImageFile, mimeType string) models.CapturedImage {
	return models.CapturedImage{
		DataURI:     dataURIPrefix + mimeType + base64Marker + base64.StdEncoding.EncodeToString(f.Data),
		MimeType:    mimeType,
		Name:        f.Name,
		Size:        len(f.Data),
		Fingerprint: fingerprint(f.Data),
	}
}

// ParseDataURI rebuilds a CapturedImage from a base64 data URI.
func ParseDataURI(uri string) (models.CapturedImage, error) {
	mimeType, raw, err := DecodeDataURI(uri)
	if err != nil {
		return models.CapturedImage{}, err
	}
	return models.CapturedImage{
		DataURI:     uri,
		MimeType:    mimeType,
		Size:        len(raw),
		Fingerprint: fingerprint(raw),
	}, nil
}

// DecodeDataURI splits a base64 data URI into its media type and bytes.
func DecodeDataURI(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, dataURIPrefix) {
		return "", nil, errMalformedDataURI
	}
	idx := strings.Index(uri, base64Marker)
	if idx < 0 {
		return "", nil, errMalformedDataURI
	}
	raw, err := base64.StdEncoding.DecodeString(uri[idx+len(base64Marker):])
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI payload: %w", err)
	}
	return stripParams(uri[len(dataURIPrefix):idx]), raw, nil
}

func fingerprint(b []byte) string {
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func stripParams(mt string) string {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
