package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cataloro/cataloro-probe/internal/models"
)

func WriteJSON(w io.Writer, run models.Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

func WriteYAML(w io.Writer, run models.Run) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(run); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFile creates path and writes the run into it with write.
// A path of "-" writes to stdout.
func WriteFile(path string, run models.Run, write func(io.Writer, models.Run) error) error {
	if path == "-" {
		return write(os.Stdout, run)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f, run); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
