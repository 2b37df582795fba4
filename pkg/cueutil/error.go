// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// FormatError turns a CUE evaluation error into one message per offending
// field, each prefixed by the field's JSON path:
//
//	bike.cue: relationships[2].type: 4 errors in empty disjunction
//
// Several fields are listed under "validation failed". Errors that do not
// come from CUE are returned wrapped with filePath.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrs := errors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	lines := make([]string, 0, len(cueErrs))
	for _, e := range cueErrs {
		lines = append(lines, fieldMessage(errors.Path(e), e.Error()))
	}
	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// fieldMessage prefixes msg with the JSON path of the field. CUE may already
// start msg with the path, in dotted or JSON form; that copy is dropped.
func fieldMessage(path []string, msg string) string {
	jsonPath := formatPath(path)
	if jsonPath == "" {
		return msg
	}
	for _, prefix := range []string{jsonPath, strings.Join(path, ".")} {
		if rest, ok := strings.CutPrefix(msg, prefix); ok {
			msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			break
		}
	}
	return jsonPath + ": " + msg
}

// formatPath renders ["features", "0", "id"] as "features[0].id". A numeric
// label is a list index unless it comes first.
func formatPath(path []string) string {
	var sb strings.Builder
	for i, label := range path {
		switch {
		case i > 0 && isListIndex(label):
			sb.WriteString("[" + label + "]")
		case i > 0:
			sb.WriteString("." + label)
		default:
			sb.WriteString(label)
		}
	}
	return sb.String()
}

func isListIndex(label string) bool {
	return label != "" && strings.Trim(label, "0123456789") == ""
}

// CheckFileSize rejects data longer than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if size := int64(len(data)); size > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, size, maxSize)
	}
	return nil
}
