package sink

import (
	"fmt"
	"os"
)

// AppendLine appends line and a newline to the file at path, creating it if
// needed. The file is closed before returning.
func AppendLine(path, line string) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
