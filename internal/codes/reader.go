// Package codes loads the instrument code list that drives a scan.
package codes

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// codePattern matches a bare 6-digit fund code. Anything else on a line
// (headers, comments, truncated codes) is ignored.
var codePattern = regexp.MustCompile(`^\d{6}$`)

// List is the result of reading a code list file.
type List struct {
	Codes   []string // valid codes, input order, duplicates removed
	Ignored int      // lines dropped: malformed, empty or duplicate
}

// Read loads the code list from path. A missing file is the one fatal
// input error of the whole pipeline, so it is returned, not swallowed.
func Read(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open code list %s: %w", path, err)
	}
	defer f.Close()

	return ReadFrom(f)
}

// ReadFrom parses a code list from r, one code per line.
func ReadFrom(r io.Reader) (*List, error) {
	list := &List{}
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !codePattern.MatchString(line) || seen[line] {
			list.Ignored++
			continue
		}
		seen[line] = true
		list.Codes = append(list.Codes, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read code list: %w", err)
	}

	return list, nil
}
