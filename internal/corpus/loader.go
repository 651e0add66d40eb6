package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile parses one YAML document file. The format is a single Document:
//
//	source: General_Catalog_2025.xlsx
//	records:
//	  - locator: 1
//	    fields:
//	      product_name: 304 Stainless Steel Pipe
//	      description: Schedule 40, 2" OD
//	    text: optional free text override
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading document file: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parsing document file %s: %w", path, err)
	}
	if doc.Source == "" {
		doc.Source = filepath.Base(path)
	}
	return doc, nil
}

// LoadDir loads every .yaml/.yml file in dir into the index, in lexical
// order so repeated startups index identically. Returns the number of chunks
// added. A missing directory is not an error; the corpus just starts empty.
func LoadDir(ix *Index, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading corpus dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isDocumentFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	total := 0
	for _, name := range names {
		doc, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return total, err
		}
		total += ix.Append(doc)
	}
	return total, nil
}

func isDocumentFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
