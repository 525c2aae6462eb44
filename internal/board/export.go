package board

import (
	"sketchboard/internal/export"
)

// ExportDataURL encodes the board as a data URL. Quality applies to jpeg
// and is clamped into [0.3, 1].
func (b *Board) ExportDataURL(format string, quality float64) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surface == nil {
		return "", ErrDestroyed
	}
	return export.DataURL(b.surface, format, quality)
}

// ExportBlob encodes the board as raw bytes.
func (b *Board) ExportBlob(format string, quality float64) (export.Blob, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surface == nil {
		return export.Blob{}, ErrDestroyed
	}
	return export.Encode(b.surface, format, quality)
}

// ExportFile encodes the board as a named file.
func (b *Board) ExportFile(name, format string, quality float64) (export.File, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surface == nil {
		return export.File{}, ErrDestroyed
	}
	return export.NewFile(b.surface, name, format, quality)
}

// Download writes the board into the download directory and returns the
// path written.
func (b *Board) Download(format string, quality float64, name string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surface == nil {
		return "", ErrDestroyed
	}
	return export.Download(b.surface, b.dlDir, format, quality, name)
}
