package attachment

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
}

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
}

// writeMinimalPDF emits a well-formed single-page PDF with a correct xref
// table, computed from the actual byte offsets.
func writeMinimalPDF(t *testing.T, path string) {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 200] >>\nendobj\n",
	}
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		buf.WriteString(obj)
	}
	xrefPos := buf.Len()
	buf.WriteString(fmt.Sprintf("xref\n0 %d\n", len(objects)+1))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}
	buf.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefPos))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestValidator_Check_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt.png")
	writePNG(t, path, 800, 600)

	v := NewValidator(0, zap.NewNop())
	pf, err := v.Check(path)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if pf.FileName != "receipt.png" {
		t.Errorf("FileName = %q, want receipt.png", pf.FileName)
	}
	if pf.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png", pf.ContentType)
	}
	if pf.SizeBytes <= 0 {
		t.Errorf("SizeBytes = %d, want > 0", pf.SizeBytes)
	}
	if pf.PageCount != 0 || pf.Thumbnail != nil {
		t.Errorf("image preflight should not carry PDF fields, got pages=%d thumb=%d bytes",
			pf.PageCount, len(pf.Thumbnail))
	}
}

func TestValidator_Check_JPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt.jpg")
	writeJPEG(t, path, 640, 480)

	v := NewValidator(0, zap.NewNop())
	pf, err := v.Check(path)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if pf.ContentType != "image/jpeg" {
		t.Errorf("ContentType = %q, want image/jpeg", pf.ContentType)
	}
}

func TestValidator_Check_PDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.pdf")
	writeMinimalPDF(t, path)

	v := NewValidator(0, zap.NewNop())
	pf, err := v.Check(path)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if pf.ContentType != "application/pdf" {
		t.Errorf("ContentType = %q, want application/pdf", pf.ContentType)
	}
	if pf.PageCount != 1 {
		t.Errorf("PageCount = %d, want 1", pf.PageCount)
	}
	if len(pf.Thumbnail) == 0 {
		t.Fatal("expected a thumbnail for a PDF")
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(pf.Thumbnail))
	if err != nil {
		t.Fatalf("thumbnail is not a PNG: %v", err)
	}
	if cfg.Width <= 0 || cfg.Width > DefaultThumbnailWidth {
		t.Errorf("thumbnail width = %d, want within (0, %d]", cfg.Width, DefaultThumbnailWidth)
	}
}

func TestValidator_Check_RejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	v := NewValidator(0, zap.NewNop())
	if _, err := v.Check(path); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestValidator_Check_RejectsOversize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.png")
	writePNG(t, path, 100, 100)

	v := NewValidator(16, zap.NewNop())
	if _, err := v.Check(path); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestValidator_Check_RejectsMismatchedContent(t *testing.T) {
	// PNG bytes behind a .pdf extension.
	path := filepath.Join(t.TempDir(), "scan.pdf")
	writePNG(t, path, 50, 50)

	v := NewValidator(0, zap.NewNop())
	if _, err := v.Check(path); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestValidator_Check_RejectsBrokenPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\nnot actually a document"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	v := NewValidator(0, zap.NewNop())
	if _, err := v.Check(path); !errors.Is(err, ErrUnreadablePDF) {
		t.Fatalf("err = %v, want ErrUnreadablePDF", err)
	}
}

func TestValidator_Check_MissingFile(t *testing.T) {
	v := NewValidator(0, zap.NewNop())
	_, err := v.Check(filepath.Join(t.TempDir(), "absent.png"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestScaleToWidth(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		maxW       int
		wantW      int
		wantScaled bool
	}{
		{"wide image shrinks", 1000, 500, 480, 480, true},
		{"narrow image untouched", 300, 900, 480, 300, false},
		{"exact width untouched", 480, 100, 480, 480, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			out := scaleToWidth(src, tt.maxW)
			if got := out.Bounds().Dx(); got != tt.wantW {
				t.Fatalf("width = %d, want %d", got, tt.wantW)
			}
			if tt.wantScaled {
				wantH := int(float64(tt.h) * float64(tt.maxW) / float64(tt.w))
				if got := out.Bounds().Dy(); got != wantH {
					t.Fatalf("height = %d, want %d", got, wantH)
				}
			}
		})
	}
}
