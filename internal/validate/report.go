package validate

import (
	"strings"

	"github.com/sqve/shipit/internal/ui"
)

const maxListedFunctions = 5

// FileResult is the outcome for one source file.
type FileResult struct {
	Path      string
	Classes   []string
	Functions []string
	Err       error
}

// MissingClasses lists expected classes a file does not define.
type MissingClasses struct {
	File    string
	Classes []string
}

// Report collects everything a validation run found.
type Report struct {
	Files          []FileResult
	MissingConfig  []string
	MissingClasses []MissingClasses
	UnsetEnv       []string
}

// OK reports whether every checked source parsed.
func (r *Report) OK() bool {
	for _, f := range r.Files {
		if f.Err != nil {
			return false
		}
	}
	return true
}

// Warnings returns one line per non-fatal finding.
func (r *Report) Warnings() []string {
	var warnings []string
	for _, file := range r.MissingConfig {
		warnings = append(warnings, file+" not found")
	}
	for _, m := range r.MissingClasses {
		warnings = append(warnings, m.File+" is missing expected classes: "+strings.Join(m.Classes, ", "))
	}
	for _, name := range r.UnsetEnv {
		warnings = append(warnings, name+" is not set")
	}
	return warnings
}

func (r *Report) file(path string) *FileResult {
	for i := range r.Files {
		if r.Files[i].Path == path {
			return &r.Files[i]
		}
	}
	return nil
}

// Print writes the report the way `shipit validate` shows it. A failed
// file is left to the caller, which reports the returned error.
func (r *Report) Print(p *ui.Printer) {
	for _, f := range r.Files {
		if f.Err != nil {
			continue
		}
		p.Success("%s syntax is valid", f.Path)
		if len(f.Classes) > 0 {
			p.Detail("classes: %s", strings.Join(f.Classes, ", "))
		}
		if len(f.Functions) > 0 {
			p.Detail("functions: %s", formatFunctions(f.Functions))
		}
	}

	for _, w := range r.Warnings() {
		p.Warning("%s", w)
	}
}

func formatFunctions(names []string) string {
	if len(names) <= maxListedFunctions {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:maxListedFunctions], ", ") + "..."
}
