package export

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Saver writes records to a file.
type Saver interface {
	Save(records []Record, path string) error
	Extension() string
}

// NewSaver returns the saver for format (json, parquet), or nil when unsupported.
func NewSaver(format string) Saver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "parquet":
		return ParquetSaver{}
	case "json":
		return JSONSaver{}
	default:
		return nil
	}
}

// ParquetSaver writes records as a Parquet file.
type ParquetSaver struct{}

// Extension returns "parquet".
func (ParquetSaver) Extension() string { return "parquet" }

// Save writes records to path.
func (ParquetSaver) Save(records []Record, path string) error {
	return parquet.WriteFile(path, records)
}

// JSONSaver writes records as an indented JSON array.
type JSONSaver struct{}

// Extension returns "json".
func (JSONSaver) Extension() string { return "json" }

// Save writes records to path.
func (JSONSaver) Save(records []Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
