package tomlsheet

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/ankurkotwal/fitcard/fc/common"
)

const (
	label = "toml"
	desc  = "Label sheets written in TOML, one sheet per file"
)

// GetSourceInfo returns the info needed to fit into FitCard
// Returns:
//   - Source label / name
//   - User friendly command line description
//   - Func handler for incoming request
func GetSourceInfo() (string, string, common.FuncRequestHandler) {
	return label, desc, handleRequest
}

func handleRequest(files [][]byte, cfg *common.Config, log *common.Logger) []common.Sheet {
	sheets := make([]common.Sheet, 0, len(files))
	for idx, file := range files {
		var sheet common.Sheet
		meta, err := toml.Decode(string(file), &sheet)
		if err != nil {
			log.Err("TOML file %d: %v", idx, err)
			continue
		}
		// Unknown keys are most likely typos; report them but keep the sheet
		for _, key := range meta.Undecoded() {
			log.Err("TOML file %d: unknown key %s", idx, key)
		}
		if sheet.Name == "" {
			sheet.Name = fmt.Sprintf("sheet %d", len(sheets)+1)
		}
		if cfg.DebugOutput {
			log.Dbg("%s", common.YamlObjectAsString(sheet, sheet.Name))
		}
		sheets = append(sheets, sheet)
	}
	return sheets
}
