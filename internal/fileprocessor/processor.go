// Package fileprocessor handles file naming and banner output for the command line tools
package fileprocessor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/log"
)

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, name string, quiet bool, version, commit, date string) {
	if quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info(name, log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}

// GenerateOutputFilename replaces the extension of the input file with the given one.
func GenerateOutputFilename(inputFile, extension string) string {
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)] + extension
}

// CreateWriter returns stdout if no output file name is given, otherwise the created file.
func CreateWriter(output string) (io.WriteCloser, error) {
	if output == "" {
		return nopCloser{os.Stdout}, nil
	}

	file, err := os.Create(output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", output, err)
	}
	return file, nil
}

// nopCloser wraps an io.Writer to add a no-op Close method
type nopCloser struct {
	io.Writer
}

func (nc nopCloser) Close() error {
	return nil
}
