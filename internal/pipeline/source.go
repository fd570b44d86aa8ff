package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	apperrors "github.com/Adithya-Monish-Kumar-K/termrank/pkg/errors"
)

// ReadManifest returns the document identifiers listed in path, one per
// line, trimmed, blank lines skipped. A missing manifest is ErrConfigMissing.
func ReadManifest(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.Wrap(apperrors.ErrConfigMissing, "", fmt.Errorf("manifest %s: %w", path, err))
		}
		return nil, apperrors.Wrap(apperrors.ErrIOFailure, "", fmt.Errorf("opening manifest %s: %w", path, err))
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if id := strings.TrimSpace(scanner.Text()); id != "" {
			ids = append(ids, id)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrIOFailure, "", fmt.Errorf("reading manifest %s: %w", path, err))
	}
	return ids, nil
}

// ReadDocument returns the UTF-8 contents of a document file.
//
//	missing file       -> ErrDataMissing
//	invalid UTF-8      -> ErrEncoding
//	any other failure  -> ErrIOFailure
func ReadDocument(docID string, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", apperrors.Wrap(apperrors.ErrDataMissing, docID, err)
		}
		return "", apperrors.Wrap(apperrors.ErrIOFailure, docID, err)
	}
	if !utf8.Valid(data) {
		return "", apperrors.Newf(apperrors.ErrEncoding, docID, "%s is not valid UTF-8", path)
	}
	return string(data), nil
}
