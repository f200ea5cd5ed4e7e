package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}
	parentDir = filepath.Dir(fullPath)
	return fullPath, parentDir, nil
}

// ReadSource loads a program file and returns its contents with the
// absolute path it was read from.
func ReadSource(relPath string) (src []byte, fullPath string, err error) {
	fullPath, _, err = GetPathInfo(relPath)
	if err != nil {
		return nil, "", err
	}
	src, err = os.ReadFile(fullPath)
	if err != nil {
		return nil, fullPath, fmt.Errorf("read source %q: %w", relPath, err)
	}
	return src, fullPath, nil
}

// SiblingPath swaps the extension of path for ext, or appends ext when
// path has none.
func SiblingPath(path, ext string) string {
	old := filepath.Ext(path)
	if old == "" {
		return path + ext
	}
	return strings.TrimSuffix(path, old) + ext
}

// Caret returns source line number line (1-based) followed by a second
// line with a caret under column. Tabs are kept so the caret lines up.
func Caret(src []byte, line, column int) string {
	lines := bytes.Split(src, []byte{'\n'})
	if line < 1 || line > len(lines) {
		return ""
	}
	text := string(bytes.TrimRight(lines[line-1], "\r"))
	var pad strings.Builder
	for i := 0; i < column-1 && i < len(text); i++ {
		if text[i] == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	for i := len(text); i < column-1; i++ {
		pad.WriteByte(' ')
	}
	return text + "\n" + pad.String() + "^"
}
