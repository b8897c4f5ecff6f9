// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks candidate input files before they enter a batch:
// existence, readability, extension eligibility, and size limits.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/docpress/pkg/types"
)

// Size limits for input files.
const (
	// WarnFileSize is the size above which a file earns a non-fatal
	// advisory before processing (100 MB).
	WarnFileSize = 100 * 1024 * 1024

	// MaxFileSize is the hard input size limit (500 MB).
	MaxFileSize = 500 * 1024 * 1024
)

// WordExtensions is the accepted set for Word-to-PDF conversion.
var WordExtensions = map[string]bool{".doc": true, ".docx": true, ".rtf": true}

// PDFExtensions is the accepted set for compression and labeling.
var PDFExtensions = map[string]bool{".pdf": true}

// Error is a validation failure carrying its error category.
type Error struct {
	Kind    types.ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Reject pairs a rejected path with its reason, preserved for reporting.
type Reject struct {
	Path    string
	Kind    types.ErrorKind
	Message string
}

// Check validates a single path against the accepted extension set.
// Checks run in order: exists, readable, extension, non-empty, size limit.
// The first failing check determines the reported reason. Check has no
// side effects.
func Check(path string, exts map[string]bool) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Error{Kind: types.KindValidation, Message: "file not found"}
		}
		return &Error{Kind: types.KindValidation, Message: fmt.Sprintf("cannot access file: %v", err)}
	}
	if info.IsDir() {
		return &Error{Kind: types.KindValidation, Message: "path is a directory"}
	}

	f, err := os.Open(path)
	if err != nil {
		return &Error{Kind: types.KindValidation, Message: fmt.Sprintf("file not readable: %v", err)}
	}
	f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	if !exts[ext] {
		return &Error{
			Kind:    types.KindValidation,
			Message: fmt.Sprintf("unsupported extension %q (accepted: %s)", ext, extList(exts)),
		}
	}

	if info.Size() == 0 {
		return &Error{Kind: types.KindValidation, Message: "file is empty"}
	}
	if info.Size() > MaxFileSize {
		return &Error{
			Kind:    types.KindValidation,
			Message: fmt.Sprintf("file exceeds %d MB limit", MaxFileSize/(1024*1024)),
		}
	}

	return nil
}

// Partition splits paths into valid files and rejects. Both partitions
// preserve their relative input order and are never merged; rejects carry
// the reason from the first failing check.
func Partition(paths []string, exts map[string]bool) (valid []string, rejects []Reject) {
	for _, p := range paths {
		if err := Check(p, exts); err != nil {
			ve := err.(*Error)
			rejects = append(rejects, Reject{Path: p, Kind: ve.Kind, Message: ve.Message})
			continue
		}
		valid = append(valid, p)
	}
	return valid, rejects
}

// Warning returns a non-fatal advisory for path, currently only that a
// file above WarnFileSize will be slow to process. A file that fails
// validation outright produces no warning.
func Warning(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	if info.Size() > WarnFileSize && info.Size() <= MaxFileSize {
		return fmt.Sprintf("%s is %d MB; processing may be slow", path, info.Size()/(1024*1024)), true
	}
	return "", false
}

func extList(exts map[string]bool) string {
	list := make([]string, 0, len(exts))
	for e := range exts {
		list = append(list, e)
	}
	sort.Strings(list)
	return strings.Join(list, " ")
}
