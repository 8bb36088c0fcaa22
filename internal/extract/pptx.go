package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// NoReadableText is returned for presentations where no shape carries text.
const NoReadableText = "No readable text found"

var slideEntry = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

type pptxSlide struct {
	CSld struct {
		SpTree struct {
			Shapes []pptxShape `xml:"sp"`
		} `xml:"spTree"`
	} `xml:"cSld"`
}

type pptxShape struct {
	TxBody *struct {
		Paragraphs []struct {
			Runs []struct {
				Text *string `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"txBody"`
}

// firstRunText returns txBody > first p > first r > t. Shapes without that path yield ok=false.
func (s pptxShape) firstRunText() (string, bool) {
	if s.TxBody == nil || len(s.TxBody.Paragraphs) == 0 {
		return "", false
	}
	runs := s.TxBody.Paragraphs[0].Runs
	if len(runs) == 0 || runs[0].Text == nil {
		return "", false
	}
	return *runs[0].Text, true
}

type slideFile struct {
	index int
	file  *zip.File
}

// extractPPTX walks every slide in numeric order and collects the first run of each shape.
// Slides that fail to parse and shapes without a text run are skipped.
func extractPPTX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pptx: %w", err)
	}

	var slides []slideFile
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		m := slideEntry.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slideFile{index: idx, file: f})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].index < slides[j].index })

	var texts []string
	for _, sf := range slides {
		slide, err := parseSlide(sf.file)
		if err != nil {
			continue
		}
		for _, shape := range slide.CSld.SpTree.Shapes {
			text, ok := shape.firstRunText()
			if ok && text != "" {
				texts = append(texts, text)
			}
		}
	}

	if len(texts) == 0 {
		return NoReadableText, nil
	}
	return strings.Join(texts, "\n"), nil
}

func parseSlide(f *zip.File) (*pptxSlide, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	var slide pptxSlide
	if err := xml.Unmarshal(raw, &slide); err != nil {
		return nil, err
	}
	return &slide, nil
}
