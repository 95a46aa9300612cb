package system

import (
	"bufio"
	"bytes"
	"strings"
)

// Selection is one row of the dpkg selection table.
type Selection struct {
	Package string
	State   string
}

// ParseSelections parses dpkg --get-selections output: one
// "<package>\t<state>" row per line. Malformed lines are dropped.
func ParseSelections(data []byte) []Selection {
	var out []Selection
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		out = append(out, Selection{Package: fields[0], State: fields[1]})
	}
	return out
}

// ParseIdentifiers parses a one-identifier-per-line list, the format of
// the flatpak and snap artifacts. Blank lines and lines starting with
// "#" are ignored, so a user can annotate or disable entries in a
// captured list before restoring it.
func ParseIdentifiers(data []byte) []string {
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// ParseSnapTable extracts snap names from `snap list` output, dropping
// the header row.
func ParseSnapTable(data []byte) []string {
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		out = append(out, fields[0])
	}
	return out
}
