package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dslipak/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageRenderer turns a pdf file into per-page images for ocr. Split out
// as an interface so processor tests do not need real pdf fixtures.
type PageRenderer interface {
	PageCount(pdfPath string) (int, error)
	// RenderPages writes page images under outputDir and returns them
	// keyed by 1-based page number. Pages with no renderable image are
	// simply absent from the map.
	RenderPages(pdfPath string, outputDir string, pageCount int) (map[int][]byte, error)
}

type pdfPageRenderer struct{}

func NewPageRenderer() PageRenderer {
	return pdfPageRenderer{}
}

func (pdfPageRenderer) PageCount(pdfPath string) (int, error) {
	reader, err := pdf.Open(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open pdf: %w", err)
	}
	return reader.NumPage(), nil
}

// RenderPages extracts each page's raster image. Scanned pdfs, the case
// ocr exists for, carry exactly one full-page image per page; born-digital
// pages without one fall through to the caller's simulated-text path.
func (pdfPageRenderer) RenderPages(pdfPath string, outputDir string, pageCount int) (map[int][]byte, error) {
	if pageCount == 0 {
		return map[int][]byte{}, nil
	}

	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return nil, err
	}
	if err := api.ExtractImagesFile(pdfPath, outputDir, nil, nil); err != nil {
		return nil, fmt.Errorf("image extraction failed: %w", err)
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, err
	}

	images := make(map[int][]byte)
	for page := 1; page <= pageCount; page++ {
		name := pageImageFile(entries, page)
		if name == "" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(outputDir, name))
		if err != nil {
			return nil, err
		}
		images[page] = data
	}
	return images, nil
}

// pageImageFile finds the extracted image belonging to a page. pdfcpu
// names extractions <basename>_<page>_<resource>.<ext>.
func pageImageFile(entries []os.DirEntry, page int) string {
	marker := fmt.Sprintf("_%d_", page)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.Contains(entry.Name(), marker) {
			return entry.Name()
		}
	}
	return ""
}
