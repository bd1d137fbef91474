package presenter

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/deetodo/internal/application/port/output"
)

// YAMLPresenter is the YAML twin of JSONPresenter
type YAMLPresenter struct {
	w io.Writer
}

func NewYAMLPresenter(w io.Writer) output.Presenter {
	return &YAMLPresenter{w: w}
}

func (p *YAMLPresenter) PresentSuccess(message string, data interface{}) error {
	return EncodeYAML(p.w, successEnvelope(message, data))
}

func (p *YAMLPresenter) PresentError(err error) error {
	return EncodeYAML(p.w, errorEnvelope(err))
}

// EncodeYAML writes v as one YAML document with two-space indentation
func EncodeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
