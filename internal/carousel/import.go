package carousel

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
)

// Import file kinds accepted by template import.
const (
	ImportKindPDF   = "pdf"
	ImportKindZIP   = "zip"
	ImportKindImage = "image"
)

// ImportFile is one uploaded file handed to template import.
type ImportFile struct {
	Name string
	Kind string
	Data []byte
}

// ImportedSlide is one usable background slide produced by import.
// Placeholder slides come from PDFs, whose page rasterization is deferred to
// the export collaborator and must never be presented as real content.
type ImportedSlide struct {
	Image       []byte
	Placeholder bool
}

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// ImportFiles turns uploaded files into ordered template slides. ZIP entries
// are extracted in numeric-aware filename order and normalized to the square
// canvas; images are normalized individually; PDFs degrade to blank
// placeholder slides sized by a page-count scan. Unsupported or unreadable
// files are skipped. Import fails only if zero usable slides result.
func ImportFiles(ctx context.Context, files []ImportFile) ([]ImportedSlide, error) {
	var slides []ImportedSlide
	for _, f := range files {
		switch strings.ToLower(strings.TrimSpace(f.Kind)) {
		case ImportKindPDF:
			pages := countPDFPages(f.Data)
			for i := 0; i < pages; i++ {
				slides = append(slides, ImportedSlide{Image: blankCanvas(), Placeholder: true})
			}
		case ImportKindZIP:
			extracted, err := importZip(ctx, f.Data)
			if err != nil {
				continue
			}
			slides = append(slides, extracted...)
		case ImportKindImage:
			normalized, err := normalizeToCanvas(f.Data)
			if err != nil {
				continue
			}
			slides = append(slides, ImportedSlide{Image: normalized})
		default:
			// skipped
		}
	}
	if len(slides) == 0 {
		return nil, fmt.Errorf("%w: no usable slides in import", errdef.ErrUnavailable)
	}
	return slides, nil
}

// importZip extracts image entries in numeric-aware name order and
// normalizes them in parallel, preserving order.
func importZip(ctx context.Context, data []byte) ([]ImportedSlide, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	byName := map[string]*zip.File{}
	names := make([]string, 0, len(zr.File))
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		base := path.Base(zf.Name)
		if strings.HasPrefix(base, ".") || strings.HasPrefix(zf.Name, "__MACOSX/") {
			continue
		}
		if !imageExts[strings.ToLower(path.Ext(base))] {
			continue
		}
		if _, seen := byName[base]; seen {
			continue
		}
		byName[base] = zf
		names = append(names, base)
	}
	sortNatural(names)

	results := make([][]byte, len(names))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for i, name := range names {
		i, zf := i, byName[name]
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			rc, err := zf.Open()
			if err != nil {
				return nil // unreadable entry is skipped
			}
			raw, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil
			}
			normalized, err := normalizeToCanvas(raw)
			if err != nil {
				return nil
			}
			results[i] = normalized
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	slides := make([]ImportedSlide, 0, len(results))
	for _, img := range results {
		if img != nil {
			slides = append(slides, ImportedSlide{Image: img})
		}
	}
	return slides, nil
}
