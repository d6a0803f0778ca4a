// ABOUTME: Prompt suggestions offered on the Generate screen
// ABOUTME: Built-in ideas plus an optional user file of one prompt per line

package samples

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Builtin are the suggestions shown when the user has none of their own.
var Builtin = []string{
	"A serene Japanese garden with cherry blossoms, tranquil pond, and traditional architecture",
	"A futuristic cityscape at night with neon lights, flying cars, and towering buildings",
	"A cozy cabin in snow-covered mountains with smoke coming from the chimney",
	"An underwater scene with colorful coral reef and exotic fish in crystal clear water",
}

// Load reads prompts from path, one per line. Blank lines and lines starting
// with # are skipped. A missing file yields no prompts.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var prompts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		prompts = append(prompts, line)
	}
	return prompts, scanner.Err()
}

// FindFile locates the user's suggestions file.
// Checks in order:
// 1. VISIONARY_SUGGESTIONS environment variable
// 2. suggestions.txt in configDir
func FindFile(configDir string) string {
	if envPath := os.Getenv("VISIONARY_SUGGESTIONS"); envPath != "" {
		return envPath
	}
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, "suggestions.txt")
}

// Discover returns the user's suggestions, or the built-ins when there are none.
func Discover(configDir string) []string {
	path := FindFile(configDir)
	if path == "" {
		return Builtin
	}
	prompts, err := Load(path)
	if err != nil || len(prompts) == 0 {
		return Builtin
	}
	return prompts
}
