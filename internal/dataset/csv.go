package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ReadTable parses a UTF-8 comma-separated table whose first row is the
// header. Rows shorter than the header are padded with the missing
// marker; an empty input yields an error since a table without a header
// has no column set to join on.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("csv source is empty")
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	rows := make([][]string, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		rows = append(rows, record)
	}

	return NewTable(header, rows), nil
}

// ReadTableFile reads a table from a CSV file on disk.
func ReadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return t, nil
}

// WriteTable serializes a table in the same encoding ReadTable accepts,
// header first, so exports round-trip through the loader.
func WriteTable(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
