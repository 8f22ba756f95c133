package reportwriter

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
)

// utf8BOM helps Excel recognize UTF-8 CSV files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// csvOptions configures writeCSV.
type csvOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool
}

// writeCSV writes a header row and records to filePath, replacing any
// existing file. The header is written even when there are no records.
func writeCSV(filePath string, opts csvOptions) (err error) {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filePath, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", filePath, cerr)
		}
	}()

	buf := bufio.NewWriter(file)

	if opts.BOMPrefix {
		if _, err := buf.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(buf)

	if err := writer.Write(opts.Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range opts.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", filePath, err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", filePath, err)
	}
	return nil
}
