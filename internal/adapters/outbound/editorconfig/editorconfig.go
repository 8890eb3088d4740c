package editorconfig

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsukasaI/fini/internal/domain"
)

const fileName = ".editorconfig"

// Reader implements domain.EditorConfigReader. Only the [*] section is
// read; per-glob sections do not affect every file and are ignored.
type Reader struct{}

func New() *Reader { return &Reader{} }

// Read finds the nearest .editorconfig above startDir. It returns nil when
// none exists.
func (r *Reader) Read(startDir string) (*domain.EditorConfig, error) {
	path, err := find(startDir)
	if err != nil || path == "" {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	ec := parse(data)
	ec.Path = path
	return ec, nil
}

func find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		p := filepath.Join(dir, fileName)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func parse(data []byte) *domain.EditorConfig {
	ec := &domain.EditorConfig{}
	inGlobal := false

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inGlobal = line == "[*]"
			continue
		}
		if !inGlobal {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.ToLower(strings.TrimSpace(value))

		switch key {
		case "trim_trailing_whitespace":
			b := value == "true"
			ec.TrimTrailingWhitespace = &b
		case "insert_final_newline":
			b := value == "true"
			ec.InsertFinalNewline = &b
		case "end_of_line":
			ec.EndOfLine = value
		}
	}
	return ec
}
