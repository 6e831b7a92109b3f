package output

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/hitcurl/packages/core/runner"
	"github.com/abdul-hamid-achik/hitcurl/packages/errs"
	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// JSONOutput is the whole exchange as a single document.
type JSONOutput struct {
	Request  *JSONRequest  `json:"request,omitempty"`
	Response *JSONResponse `json:"response,omitempty"`
	Duration float64       `json:"duration"`
	Error    *JSONError    `json:"error,omitempty"`
}

// JSONRequest represents request details
type JSONRequest struct {
	Method   string       `json:"method"`
	URL      string       `json:"url"`
	Headers  []JSONHeader `json:"headers,omitempty"`
	BodySize int          `json:"bodySize"`
}

// JSONHeader keeps request headers in the order they are sent.
type JSONHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// JSONResponse represents response details
type JSONResponse struct {
	StatusCode int                 `json:"statusCode"`
	Status     string              `json:"status"`
	Headers    map[string][]string `json:"headers,omitempty"`
	// Body is embedded as JSON when the response is valid JSON, otherwise
	// as a string.
	Body     any     `json:"body,omitempty"`
	Duration float64 `json:"duration"`
}

type JSONError struct {
	Category string `json:"category,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Message  string `json:"message"`
}

// JSONFormatter writes the exchange as indented JSON.
type JSONFormatter struct {
	writer io.Writer
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{writer: os.Stdout}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithJSONWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(result *runner.Result) error {
	return f.write(f.toOutput(result))
}

func (f *JSONFormatter) FormatError(err error) {
	f.writeError(JSONOutput{}, err)
}

// FormatFailure writes the part of the exchange that completed together
// with the error that stopped it.
func (f *JSONFormatter) FormatFailure(result *runner.Result, err error) {
	if result == nil {
		f.FormatError(err)
		return
	}
	f.writeError(f.toOutput(result), err)
}

func (f *JSONFormatter) writeError(out JSONOutput, err error) {
	out.Error = &JSONError{Message: err.Error()}
	if kind := errs.KindOf(err); kind != nil {
		out.Error.Category = string(kind.Category())
		out.Error.Kind = kind.Name()
	}
	if werr := f.write(out); werr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func (f *JSONFormatter) toOutput(result *runner.Result) JSONOutput {
	out := JSONOutput{Duration: float64(result.Duration.Milliseconds())}

	if req := result.Request; req != nil {
		jr := &JSONRequest{
			Method:   req.Method(),
			URL:      req.URL().String(),
			BodySize: req.BodyLen(),
		}
		for _, h := range req.Headers().All() {
			jr.Headers = append(jr.Headers, JSONHeader{Name: h.Name, Value: h.Value})
		}
		out.Request = jr
	}

	if resp := result.Response; resp != nil {
		jr := &JSONResponse{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Headers:    resp.Headers,
			Duration:   float64(resp.DurationMs()),
		}
		if len(resp.Body) > 0 {
			if gjson.ValidBytes(resp.Body) {
				jr.Body = json.RawMessage(resp.Body)
			} else {
				jr.Body = resp.BodyString()
			}
		}
		out.Response = jr
	}

	return out
}

func (f *JSONFormatter) write(out JSONOutput) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(f.writer, "%s\n", data)
	return err
}
