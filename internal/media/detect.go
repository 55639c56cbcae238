// Package media knows which files wavetrack can open and what to call them.
package media

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// audioExts lists the formats internal/decode can read, in display order.
var audioExts = []string{".wav", ".mp3", ".flac", ".ogg"}

// IsSupportedExt returns true if the extension is a decodable audio format.
func IsSupportedExt(ext string) bool {
	return slices.Contains(audioExts, strings.ToLower(ext))
}

// IsSupported reports whether path has a decodable extension.
func IsSupported(path string) bool {
	return IsSupportedExt(filepath.Ext(path))
}

// SupportedExtsList returns a human-readable list of supported formats.
func SupportedExtsList() string {
	return strings.Join(audioExts, ", ")
}

// Scan lists the supported audio files directly inside dir, sorted by
// name. Subdirectories and hidden files are skipped.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !IsSupported(name) {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	slices.Sort(out)
	return out, nil
}
