package git

import (
	"bufio"
	"strings"
)

// ChangeCounts summarizes `git status --porcelain` output.
type ChangeCounts struct {
	Staged    int
	Unstaged  int
	Untracked int
	Files     []string
}

func (c ChangeCounts) HasChanges() bool {
	return len(c.Files) > 0
}

func (c ChangeCounts) Total() int {
	return len(c.Files)
}

// ParsePorcelain parses `git status --porcelain` (v1) output.
func ParsePorcelain(output string) ChangeCounts {
	var counts ChangeCounts

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 4 {
			continue
		}

		staged, unstaged := line[0], line[1]
		path := line[3:]
		if _, renamed, ok := strings.Cut(path, " -> "); ok {
			path = renamed
		}
		counts.Files = append(counts.Files, path)

		if staged == '?' && unstaged == '?' {
			counts.Untracked++
			continue
		}
		if staged != ' ' {
			counts.Staged++
		}
		if unstaged != ' ' {
			counts.Unstaged++
		}
	}

	return counts
}
