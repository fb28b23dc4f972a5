package toc

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// dateStem matches the CCYY-MM-DD file stem used for saved contents files.
var dateStem = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDate derives the edition date from a contents file path such as
// /archive/Contents/2024/2024-03-09.json.
func ParseDate(path string) (time.Time, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if !dateStem.MatchString(stem) {
		return time.Time{}, ErrMalformedDate
	}

	date, err := time.Parse(time.DateOnly, stem)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedDate, err)
	}

	return date, nil
}

// IsContentsFile reports whether name looks like a saved contents file.
func IsContentsFile(name string) bool {
	base := filepath.Base(name)
	ext := strings.ToLower(filepath.Ext(base))
	if ext != ".json" && ext != ".html" && ext != ".htm" {
		return false
	}
	_, err := ParseDate(base)
	return err == nil
}
