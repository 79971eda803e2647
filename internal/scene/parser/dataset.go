package parser

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"column3d/internal/scene/models"
)

// ============================================================
// Dataset Parser
// ============================================================

var (
	ErrTooFewLines   = errors.New("file must contain at least 2 lines")
	ErrInvalidFormat = errors.New("invalid format, use: name,value")
	ErrInvalidUpload = errors.New("invalid upload payload")
)

// Parse читает записи "label<sep>value". Разделитель: запятая, иначе таб, иначе пробелы.
// Строки с нечисловым или бесконечным значением пропускаются молча.
func Parse(r io.Reader) (models.Dataset, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	if len(lines) < models.MinUploadRows {
		return nil, ErrTooFewLines
	}

	var ds models.Dataset
	for _, line := range lines {
		entry, ok := parseLine(line)
		if !ok {
			continue
		}
		ds = append(ds, entry)
	}

	if len(ds) < models.MinUploadRows {
		return nil, ErrInvalidFormat
	}
	return ds, nil
}

// ParseString: Parse для строки.
func ParseString(s string) (models.Dataset, error) {
	return Parse(strings.NewReader(s))
}

// ParseDataURL декодирует загрузку вида "data:text/csv;base64,<payload>".
func ParseDataURL(contents string) (models.Dataset, error) {
	_, payload, found := strings.Cut(contents, ",")
	if !found {
		return nil, ErrInvalidUpload
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}
	return Parse(strings.NewReader(string(data)))
}

// ============================================================
// Helpers
// ============================================================

func readLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func parseLine(line string) (models.Entry, bool) {
	parts := splitFields(line)
	if len(parts) < 2 {
		return models.Entry{}, false
	}

	val, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return models.Entry{}, false
	}

	return models.Entry{Label: strings.TrimSpace(parts[0]), Value: val}, true
}

func splitFields(line string) []string {
	switch {
	case strings.Contains(line, ","):
		return strings.Split(line, ",")
	case strings.Contains(line, "\t"):
		return strings.Split(line, "\t")
	default:
		return strings.Fields(line)
	}
}
