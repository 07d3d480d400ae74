package yamlsheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ankurkotwal/fitcard/fc/common"
)

const (
	label = "yaml"
	desc  = "Label sheets written in YAML, one sheet per document"
)

// GetSourceInfo returns the info needed to fit into FitCard
// Returns:
//   - Source label / name
//   - User friendly command line description
//   - Func handler for incoming request
func GetSourceInfo() (string, string, common.FuncRequestHandler) {
	return label, desc, handleRequest
}

// handleRequest parses every document of every file into a sheet.
func handleRequest(files [][]byte, cfg *common.Config, log *common.Logger) []common.Sheet {
	var sheets []common.Sheet
	for idx, file := range files {
		fileSheets, err := parseSheets(file)
		if err != nil {
			log.Err("YAML file %d: %v", idx, err)
		}
		for _, sheet := range fileSheets {
			if sheet.Name == "" {
				sheet.Name = fmt.Sprintf("sheet %d", len(sheets)+1)
			}
			if cfg.DebugOutput {
				log.Dbg("%s", common.YamlObjectAsString(sheet, sheet.Name))
			}
			sheets = append(sheets, sheet)
		}
	}
	return sheets
}

// parseSheets decodes documents until the end of the file. Sheets decoded
// before an error are returned with it.
func parseSheets(file []byte) ([]common.Sheet, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(file))
	decoder.KnownFields(true)
	var sheets []common.Sheet
	for {
		var sheet common.Sheet
		err := decoder.Decode(&sheet)
		if errors.Is(err, io.EOF) {
			return sheets, nil
		}
		if err != nil {
			return sheets, fmt.Errorf("document %d: %w", len(sheets)+1, err)
		}
		sheets = append(sheets, sheet)
	}
}
