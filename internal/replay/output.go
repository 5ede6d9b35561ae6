package replay

import (
	"fmt"
	"io"

	json "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/mousebackend/internal/config"
)

// Write encodes res in format ("json" or "yaml").
func Write(w io.Writer, res *Result, format string, pretty bool) error {
	switch format {
	case config.FormatJSON:
		enc := json.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		if pretty {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return nil
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
