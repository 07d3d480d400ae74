package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ankurkotwal/fitcard/fc"
	"github.com/ankurkotwal/fitcard/fc/common"
)

func main() {
	log := common.NewLog()
	debugMode, configPath, sourceArgs, err := parseCliArgs(os.Args[1:], log)
	if err != nil {
		log.Fatal("%v", err)
	}
	router, port, err := fc.GetServer(debugMode, configPath, sourceArgs)
	if err != nil {
		log.Fatal("Failed to start: %v", err)
	}
	stop, err := fc.WatchConfig(configPath)
	if err != nil {
		log.Msg("Config will not be reloaded: %v", err)
	} else {
		defer stop()
	}
	if err := router.Run(port); err != nil {
		log.Fatal("Server stopped: %v", err)
	}
}

func parseCliArgs(args []string, log *common.Logger) (bool, string, fc.SourceToInputFiles, error) {
	sourceFiles := make(fc.SourceToInputFiles)
	flags := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ContinueOnError)
	flags.Usage = func() {
		fmt.Printf("Usage: %s [flags]\n\n", flags.Name())
		flags.PrintDefaults()
	}
	var debugMode bool
	flags.BoolVar(&debugMode, "d", false, "Enable debug mode & deploy GET handlers.")
	var configPath string
	flags.StringVar(&configPath, "c", "config/config.yaml", "App config file (.yaml or .toml).")
	var testDataDir string
	flags.StringVar(&testDataDir, "t", "", "Directory to load test sheets from. Only used if debug mode is enabled.")
	for _, getSourceInfo := range fc.SourcesInfo {
		label, _, _ := getSourceInfo()
		files := new(fc.Filenames)
		sourceFiles[label] = files
		flags.Var(files, label, fmt.Sprintf("Sheet file for /test/%s. Repeat for more files.", label))
	}
	if err := flags.Parse(args); err != nil {
		return false, "", nil, err
	}
	// If in debug mode and a test data dir was provided, read files by source label dir
	if debugMode && len(testDataDir) > 0 {
		for label, files := range sourceFiles {
			dirFiles, err := fc.GetFilesFromDir(filepath.Join(testDataDir, label))
			if err != nil {
				log.Err("Error loading files for %s: %v", label, err)
				continue
			}
			*files = append(*files, *dirFiles...)
		}
	}

	return debugMode, configPath, sourceFiles, nil
}
