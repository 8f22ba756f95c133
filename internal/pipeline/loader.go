package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/config"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/csvparser"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/types"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/xlsxparser"
	"github.com/olzhaszz/business-data-validation-toolkit/pkg/utils"
)

// LoadTable reads an input file, choosing the parser from the extension:
// .xlsx and .xlsm go to the workbook parser, everything else is CSV.
func LoadTable(path string, settings config.InputConfig) (*types.RawTable, error) {
	if !utils.FileExists(path) {
		return nil, fmt.Errorf("input file not found: %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return xlsxparser.Parse(path, settings)
	default:
		return csvparser.Parse(path, settings)
	}
}
