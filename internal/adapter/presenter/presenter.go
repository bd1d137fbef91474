package presenter

import (
	"fmt"
	"io"
	"strings"

	"github.com/YoshitsuguKoike/deetodo/internal/application/port/output"
)

// Output formats accepted by New
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// New returns the presenter for format. An empty format means text.
func New(format string, w io.Writer) (output.Presenter, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return NewCLITaskPresenter(w), nil
	case FormatJSON:
		return NewJSONPresenter(w), nil
	case FormatYAML:
		return NewYAMLPresenter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected text, json or yaml)", format)
	}
}

// Encode writes v in a machine-readable format without the success envelope
func Encode(w io.Writer, format string, v interface{}) error {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		return EncodeJSON(w, v)
	case FormatYAML:
		return EncodeYAML(w, v)
	default:
		return fmt.Errorf("unknown export format %q (expected json or yaml)", format)
	}
}
