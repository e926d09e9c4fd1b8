package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// parseGroups reads one group per line. Blank lines and lines starting
// with # are skipped; duplicates keep their first position.
func parseGroups(r io.Reader) ([]string, error) {
	var groups []string
	seen := map[string]bool{}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		groups = append(groups, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

func readGroupsFile(fs afero.Fs, path string) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open groups file: %w", err)
	}
	defer f.Close()

	groups, err := parseGroups(f)
	if err != nil {
		return nil, fmt.Errorf("read groups file %s: %w", path, err)
	}
	return groups, nil
}
