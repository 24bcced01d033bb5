// Package namelist reads and rewrites Fortran namelist documents of the
// kind consumed by the WPS and WRF binaries: named sections opened by
// `&name` and closed by `/`, each holding `field = value` lines. Lines
// this package does not touch are preserved verbatim on write-back.
package namelist

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Document is a namelist file split into lines.
type Document struct {
	lines []string
}

// Read loads the namelist document at path.
func Read(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read namelist %s: %w", path, err)
	}
	return &Document{lines: strings.Split(string(content), "\n")}, nil
}

// find returns the index of the `field = value` line inside section.
func (doc *Document) find(section, field string) (int, bool) {
	inSection := false
	for i, line := range doc.lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "&") {
			inSection = strings.EqualFold(strings.TrimPrefix(trimmed, "&"), section)
			continue
		}
		if trimmed == "/" {
			inSection = false
			continue
		}
		if !inSection {
			continue
		}
		name, _, ok := strings.Cut(trimmed, "=")
		if ok && strings.EqualFold(strings.TrimSpace(name), field) {
			return i, true
		}
	}
	return 0, false
}

// Int returns the integer value of section.field.
func (doc *Document) Int(section, field string) (int, error) {
	i, ok := doc.find(section, field)
	if !ok {
		return 0, fmt.Errorf("%s.%s property not found", section, field)
	}
	_, rawValue, _ := strings.Cut(doc.lines[i], "=")
	valueS := strings.Trim(rawValue, " \t,")
	value, err := strconv.Atoi(valueS)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %s.%s `%s` to integer: %w", section, field, valueS, err)
	}
	return value, nil
}

// SetStringList sets section.field to a comma-separated list of quoted
// strings, replacing the existing line or inserting a new one before the
// section terminator. The indentation of a replaced line is kept.
func (doc *Document) SetStringList(section, field string, values []string) error {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	value := strings.Join(quoted, ", ") + ","

	if i, ok := doc.find(section, field); ok {
		indent := doc.lines[i][:len(doc.lines[i])-len(strings.TrimLeft(doc.lines[i], " \t"))]
		doc.lines[i] = fmt.Sprintf("%s%s = %s", indent, field, value)
		return nil
	}

	end, ok := doc.sectionEnd(section)
	if !ok {
		return fmt.Errorf("section &%s not found", section)
	}
	line := fmt.Sprintf(" %s = %s", field, value)
	doc.lines = append(doc.lines[:end], append([]string{line}, doc.lines[end:]...)...)
	return nil
}

// sectionEnd returns the index of the `/` line closing section.
func (doc *Document) sectionEnd(section string) (int, bool) {
	inSection := false
	for i, line := range doc.lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "&") {
			inSection = strings.EqualFold(strings.TrimPrefix(trimmed, "&"), section)
			continue
		}
		if trimmed == "/" && inSection {
			return i, true
		}
	}
	return 0, false
}

// Write persists the document to path. The content is written to a
// temporary file first and renamed over the target, so a failed write
// never leaves a half-replaced namelist behind.
func (doc *Document) Write(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write namelist %s: %w", path, err)
	}
	tmpName := tmp.Name()
	_, err = tmp.WriteString(strings.Join(doc.lines, "\n"))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write namelist %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write namelist %s: %w", path, err)
	}
	return nil
}
