// Package envfile reads and writes line-oriented KEY=VALUE environment
// files of the kind systemd's EnvironmentFile= consumes.
package envfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Pair is a single environment entry. Order is preserved on render so
// re-runs produce byte-identical files for identical inputs.
type Pair struct {
	Key   string
	Value string
}

// ValidateKey accepts the usual environment-variable alphabet. A key
// containing '=' or whitespace would silently corrupt the file structure,
// so anything outside [A-Z0-9_] (not starting with a digit) is rejected.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty key")
	}
	if key[0] >= '0' && key[0] <= '9' {
		return fmt.Errorf("key %q starts with a digit", key)
	}
	for _, r := range key {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			continue
		}
		return fmt.Errorf("key %q contains invalid character %q", key, r)
	}
	return nil
}

// ValidateValue rejects values that would break the one-entry-per-line
// structure. Values may contain '=' (the parser splits on the first one);
// newlines, carriage returns, and NUL cannot be represented and are refused
// rather than written through.
func ValidateValue(value string) error {
	if strings.ContainsAny(value, "\n\r\x00") {
		return fmt.Errorf("value contains newline or NUL")
	}
	return nil
}

// Render serializes pairs as KEY=VALUE lines. Any entry failing validation
// aborts the render; nothing is emitted for a partially valid set.
func Render(pairs []Pair) ([]byte, error) {
	var b strings.Builder
	for _, p := range pairs {
		if err := ValidateKey(p.Key); err != nil {
			return nil, err
		}
		if err := ValidateValue(p.Value); err != nil {
			return nil, fmt.Errorf("%s: %w", p.Key, err)
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

// Write renders pairs and replaces the file at path atomically (temp file in
// the same directory, then rename). The file carries the given mode from the
// moment it exists; a previous file is overwritten without backup.
func Write(path string, pairs []Pair, mode os.FileMode) error {
	data, err := Render(pairs)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Parse decodes KEY=VALUE lines. Blank lines and '#' comments are skipped;
// malformed lines are ignored rather than fatal, matching how the
// supervisor's own parser treats them.
func Parse(data []byte) map[string]string {
	out := map[string]string{}
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(k) == "" {
			continue
		}
		out[strings.TrimSpace(k)] = v
	}
	return out
}
