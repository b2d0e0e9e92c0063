package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"trade-journal/internal/models"
	"trade-journal/internal/store"
)

// SurfaceAll selects every entry for export.
const SurfaceAll = "all"

// Exporter renders an archive surface to a file. A surface is either
// SurfaceAll or a single entry id.
type Exporter interface {
	Export(ctx context.Context, surface, filename string) error
}

// Document is the file written by JSONExporter.
type Document struct {
	ExportedAt time.Time             `json:"exported_at"`
	Catalog    string                `json:"catalog_version,omitempty"`
	Summary    Summary               `json:"summary"`
	Entries    []models.ArchivedView `json:"entries"`
}

// JSONExporter writes archived views as an indented JSON document.
type JSONExporter struct {
	Entries        store.EntryRepository
	Aggregator     *Aggregator
	CatalogVersion string
	Sort           store.SortOrder
}

// Export writes surface to filename, replacing any existing file.
func (x *JSONExporter) Export(ctx context.Context, surface, filename string) error {
	var entries []models.JournalEntry
	if surface == "" || surface == SurfaceAll {
		list, err := x.Entries.ListEntries(ctx, store.EntryFilter{Sort: x.Sort})
		if err != nil {
			return fmt.Errorf("listing entries: %w", err)
		}
		entries = list
	} else {
		e, err := x.Entries.GetEntry(ctx, surface)
		if err != nil {
			return err
		}
		entries = []models.JournalEntry{*e}
	}

	views := x.Aggregator.Build(ctx, entries)
	doc := Document{
		ExportedAt: time.Now().UTC(),
		Catalog:    x.CatalogVersion,
		Summary:    Summarize(views),
		Entries:    views,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}

	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}
	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return os.Rename(tmp, filename)
}
