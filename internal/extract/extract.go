package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

// Format identifies a supported upload type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatPPTX Format = "pptx"
)

// ErrUnsupportedFormat is returned for extensions other than pdf, docx and pptx.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Supported reports whether ext (with or without the leading dot) is an accepted upload type.
func Supported(ext string) bool {
	_, ok := formatFromExt(ext)
	return ok
}

// FormatFromName resolves the upload format from a file name's extension.
func FormatFromName(name string) (Format, error) {
	f, ok := formatFromExt(filepath.Ext(name))
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
	return f, nil
}

func formatFromExt(ext string) (Format, bool) {
	clean := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	switch Format(clean) {
	case FormatPDF, FormatDOCX, FormatPPTX:
		return Format(clean), true
	default:
		return "", false
	}
}

// ExtractFile reads a local file and extracts its text.
func ExtractFile(ctx context.Context, path string) (string, error) {
	if _, err := FormatFromName(path); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("extract file %s: %w", path, err)
	}
	return ExtractTextFromBytes(ctx, data, filepath.Base(path))
}

// ExtractTextFromBytes extracts text from an in-memory payload. The format is chosen by fileName's extension.
func ExtractTextFromBytes(ctx context.Context, data []byte, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	format, err := FormatFromName(fileName)
	if err != nil {
		return "", err
	}
	switch format {
	case FormatPDF:
		return extractPDF(data)
	case FormatDOCX:
		return extractDOCX(data)
	default:
		return extractPPTX(data)
	}
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// extractDOCX prefers docconv and falls back to walking word/document.xml directly
// when the package has no content-type manifest or docconv yields nothing.
func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	if findEntry(zr, "[Content_Types].xml") != nil {
		text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), nil
		}
	}
	return extractDOCXBody(zr)
}

func extractDOCXBody(zr *zip.Reader) (string, error) {
	docFile := findEntry(zr, "word/document.xml")
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return stripDocxXML(string(raw)), nil
}

func findEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == name {
			return f
		}
	}
	return nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
