// Package attachment validates files before they are offered for upload.
// The backend revalidates everything; rejecting bad files here just saves
// the user a round trip.
package attachment

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

var (
	// ErrUnsupportedType marks files outside the pdf/png/jpg allowlist,
	// including files whose content does not match their extension.
	ErrUnsupportedType = errors.New("unsupported attachment type")
	// ErrTooLarge marks files over the configured size limit.
	ErrTooLarge = errors.New("attachment exceeds size limit")
	// ErrUnreadablePDF marks PDFs that cannot be opened or rendered,
	// which includes password-protected documents.
	ErrUnreadablePDF = errors.New("unreadable or encrypted PDF")
)

const (
	// DefaultMaxSizeBytes caps uploads at 10 MiB unless configured otherwise.
	DefaultMaxSizeBytes = 10 << 20
	// DefaultThumbnailWidth bounds the preview rendered from a PDF's first page.
	DefaultThumbnailWidth = 480
)

// allowedTypes maps permitted extensions to the content type the upload
// request will declare.
var allowedTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// Preflight is the outcome of validating one file.
type Preflight struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	// PageCount and Thumbnail are filled for PDFs only. Thumbnail is a PNG
	// no wider than the validator's thumbnail width.
	PageCount int
	Thumbnail []byte
}

// Validator checks attachments against the upload policy.
type Validator struct {
	maxSize        int64
	thumbnailWidth int
	logger         *zap.Logger
}

// NewValidator creates a Validator. A non-positive maxSizeBytes selects
// DefaultMaxSizeBytes.
func NewValidator(maxSizeBytes int64, logger *zap.Logger) *Validator {
	if maxSizeBytes <= 0 {
		maxSizeBytes = DefaultMaxSizeBytes
	}
	return &Validator{
		maxSize:        maxSizeBytes,
		thumbnailWidth: DefaultThumbnailWidth,
		logger:         logger,
	}
}

// Check validates the file at path and returns its upload metadata.
func (v *Validator) Check(path string) (*Preflight, error) {
	ext := strings.ToLower(filepath.Ext(path))
	contentType, ok := allowedTypes[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat attachment: %w", err)
	}
	if info.Size() > v.maxSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, info.Size(), v.maxSize)
	}

	sniffed, err := sniffContentType(path)
	if err != nil {
		return nil, err
	}
	if sniffed != contentType {
		return nil, fmt.Errorf("%w: content is %s, extension says %s", ErrUnsupportedType, sniffed, contentType)
	}

	pf := &Preflight{
		FileName:    filepath.Base(path),
		ContentType: contentType,
		SizeBytes:   info.Size(),
	}
	if contentType == "application/pdf" {
		if err := v.inspectPDF(path, pf); err != nil {
			return nil, err
		}
	}

	v.logger.Debug("Attachment passed preflight",
		zap.String("file", pf.FileName),
		zap.String("content_type", pf.ContentType),
		zap.Int64("size_bytes", pf.SizeBytes),
		zap.Int("pages", pf.PageCount))
	return pf, nil
}

// inspectPDF opens the document, counts pages and renders the first page as
// a preview thumbnail.
func (v *Validator) inspectPDF(path string, pf *Preflight) error {
	doc, err := fitz.New(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}
	defer doc.Close()

	pf.PageCount = doc.NumPage()
	if pf.PageCount == 0 {
		return fmt.Errorf("%w: document has no pages", ErrUnreadablePDF)
	}

	img, err := doc.Image(0)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaleToWidth(img, v.thumbnailWidth)); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	pf.Thumbnail = buf.Bytes()
	return nil
}

// sniffContentType reads the file head and detects its actual content type.
func sniffContentType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open attachment: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read attachment head: %w", err)
	}
	return http.DetectContentType(head[:n]), nil
}

// scaleToWidth reduces src to at most width pixels wide, keeping the aspect
// ratio. Images already narrow enough pass through unchanged. Nearest
// neighbor is plenty for a preview.
func scaleToWidth(src image.Image, width int) image.Image {
	b := src.Bounds()
	if b.Dx() <= width {
		return src
	}
	scale := float64(width) / float64(b.Dx())
	height := int(float64(b.Dy()) * scale)
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		srcY := b.Min.Y + int(float64(y)/scale)
		for x := 0; x < width; x++ {
			srcX := b.Min.X + int(float64(x)/scale)
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}
	return dst
}
