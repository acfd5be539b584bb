// Package discover resolves the document list from CLI arguments.
package discover

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// pattern matches PDF files in the working directory when no arguments are
// given. Enumeration order is whatever the filesystem returns.
const pattern = "*.pdf"

// Documents returns the ordered document paths to browse. Arguments are used
// verbatim; with none, the working directory is globbed.
func Documents(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files matching %s in the current directory", pattern)
	}
	return matches, nil
}
