package run

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/toejough/go-reorder"
)

// writeGenerated writes code to <dir>/generated_<mockName>.go.
func writeGenerated(code, mockName, dir string, fileWriter FileSystem, out io.Writer) error {
	const generatedFilePermissions = 0o600

	filename := filepath.Join(dir, "generated_"+mockName+".go")

	// Reorder declarations according to project conventions
	reordered, err := reorder.Source(code)
	if err != nil {
		// If reordering fails, log but continue with original code
		_, _ = fmt.Fprintf(out, "Warning: failed to reorder %s: %v\n", filename, err)

		reordered = code
	}

	err = fileWriter.WriteFile(filename, []byte(reordered), os.FileMode(generatedFilePermissions))
	if err != nil {
		return fmt.Errorf("error writing %s: %w", filename, err)
	}

	_, _ = fmt.Fprintf(out, "%s written successfully.\n", filename)

	return nil
}
