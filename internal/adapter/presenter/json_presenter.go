package presenter

import (
	"encoding/json"
	"io"

	"github.com/YoshitsuguKoike/deetodo/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetodo/internal/domain/model/task"
)

// envelope wraps every machine-readable response
type envelope struct {
	Success bool        `json:"success" yaml:"success"`
	Message string      `json:"message,omitempty" yaml:"message,omitempty"`
	Error   string      `json:"error,omitempty" yaml:"error,omitempty"`
	Kind    string      `json:"kind,omitempty" yaml:"kind,omitempty"`
	Data    interface{} `json:"data,omitempty" yaml:"data,omitempty"`
}

func successEnvelope(message string, data interface{}) envelope {
	return envelope{Success: true, Message: message, Data: data}
}

func errorEnvelope(err error) envelope {
	env := envelope{Error: err.Error()}
	if kind, ok := task.KindOf(err); ok {
		env.Kind = string(kind)
	}
	return env
}

// JSONPresenter writes each result as one indented JSON document.
// Errors are part of the document, so PresentError returns nil once written.
type JSONPresenter struct {
	w io.Writer
}

func NewJSONPresenter(w io.Writer) output.Presenter {
	return &JSONPresenter{w: w}
}

func (p *JSONPresenter) PresentSuccess(message string, data interface{}) error {
	return EncodeJSON(p.w, successEnvelope(message, data))
}

func (p *JSONPresenter) PresentError(err error) error {
	return EncodeJSON(p.w, errorEnvelope(err))
}

// EncodeJSON writes v with two-space indentation and a trailing newline
func EncodeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
