// Package catalog loads the clothing catalog: a CSV mapping of item names to
// image files, read once at startup.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrSourceMissing indicates the catalog CSV file does not exist. The
	// server treats this as a warning and offers no clothing options.
	ErrSourceMissing = errors.New("clothing catalog source missing")

	// ErrMalformedRow indicates a CSV row that does not carry a name and an
	// image file.
	ErrMalformedRow = errors.New("malformed catalog row")

	// ErrUnknownItem indicates a lookup for an item name not in the catalog.
	ErrUnknownItem = errors.New("unknown clothing item")
)

// Item is a single clothing entry.
type Item struct {
	// Name is the user-facing item name, unique within the catalog.
	Name string `json:"name"`

	// ImageFile is the item's image filename, relative to the clothing
	// image directory.
	ImageFile string `json:"image_file"`
}

// Catalog is an immutable mapping of clothing item names to image files.
// It is safe for concurrent use once loaded.
type Catalog struct {
	imageDir string
	items    []Item
	byName   map[string]Item
}

// Load reads the catalog from the CSV file at path.
//
// The file must have a header row of "name,image_file" followed by one row
// per item. Rows with missing or blank fields fail the load with
// ErrMalformedRow wrapped with the offending line number; a duplicate name
// fails the same way. A missing file returns ErrSourceMissing.
//
// imageDir is the directory item image paths are resolved against.
func Load(path, imageDir string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()

	cat, err := parse(f, imageDir)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

func parse(r io.Reader, imageDir string) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMalformedRow)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	nameIdx, fileIdx, err := headerIndexes(header)
	if err != nil {
		return nil, err
	}

	cat := &Catalog{
		imageDir: imageDir,
		byName:   make(map[string]Item),
	}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w: %v", line, ErrMalformedRow, err)
		}

		if len(record) <= nameIdx || len(record) <= fileIdx {
			return nil, fmt.Errorf("row %d: %w: want %d fields, got %d",
				line, ErrMalformedRow, len(header), len(record))
		}

		item := Item{
			Name:      strings.TrimSpace(record[nameIdx]),
			ImageFile: strings.TrimSpace(record[fileIdx]),
		}
		if item.Name == "" || item.ImageFile == "" {
			return nil, fmt.Errorf("row %d: %w: blank name or image file", line, ErrMalformedRow)
		}
		if _, exists := cat.byName[item.Name]; exists {
			return nil, fmt.Errorf("row %d: %w: duplicate name %q", line, ErrMalformedRow, item.Name)
		}

		cat.items = append(cat.items, item)
		cat.byName[item.Name] = item
	}

	return cat, nil
}

func headerIndexes(header []string) (nameIdx, fileIdx int, err error) {
	nameIdx, fileIdx = -1, -1
	for i, col := range header {
		switch strings.TrimSpace(strings.ToLower(col)) {
		case "name":
			nameIdx = i
		case "image_file":
			fileIdx = i
		}
	}
	if nameIdx < 0 || fileIdx < 0 {
		return 0, 0, fmt.Errorf("%w: header must contain name and image_file columns", ErrMalformedRow)
	}
	return nameIdx, fileIdx, nil
}

// Empty returns a catalog with no items. Used when the source is missing so
// the rest of the application can keep running with an empty wardrobe.
func Empty() *Catalog {
	return &Catalog{byName: make(map[string]Item)}
}

// Items returns all items in their CSV order.
func (c *Catalog) Items() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}

// Len returns the number of items in the catalog.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Lookup returns the item with the given name.
func (c *Catalog) Lookup(name string) (Item, bool) {
	item, ok := c.byName[name]
	return item, ok
}

// ImagePath resolves the image file path for the named item. The path is
// confined to the clothing image directory; an image file that escapes it is
// rejected as ErrUnknownItem.
func (c *Catalog) ImagePath(name string) (string, error) {
	item, ok := c.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownItem, name)
	}

	path := filepath.Join(c.imageDir, item.ImageFile)
	rel, err := filepath.Rel(c.imageDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: %q", ErrUnknownItem, name)
	}
	return path, nil
}
