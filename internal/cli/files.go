package cli

import (
	"fmt"
	"os"

	"github.com/intel/initsearchtool/internal/initrc"
	"github.com/intel/initsearchtool/internal/verify"
)

// loadFiles reads and parses every input path, in argv order. A file
// that fails to read or parse is reported to stderr and skipped; the
// other files still process. Only a run with zero usable files fails.
func loadFiles(paths []string) ([]verify.ParsedFile, error) {
	var out []verify.ParsedFile
	for _, path := range paths {
		f, err := initrc.ReadSourceFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "isearch: %v\n", err)
			continue
		}
		sections, err := initrc.Parse(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "isearch: %v\n", err)
			continue
		}
		out = append(out, verify.ParsedFile{File: f, Sections: sections})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no usable input files")
	}
	return out, nil
}
