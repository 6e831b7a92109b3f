package output

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/abdul-hamid-achik/hitcurl/packages/core/runner"
	"github.com/abdul-hamid-achik/hitcurl/packages/http"
	"github.com/fatih/color"
	"github.com/tidwall/gjson"
)

// Formatter renders a finished exchange.
type Formatter interface {
	FormatResult(result *runner.Result) error
	FormatError(err error)
	// FormatFailure renders an exchange that stopped with err after the
	// request was built.
	FormatFailure(result *runner.Result, err error)
}

type ConsoleFormatter struct {
	writer  io.Writer
	trace   io.Writer
	verbose bool
	pretty  bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
		trace:  os.Stderr,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

// WithWriter sets where the response body goes.
func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

// WithTraceWriter sets where verbose trace lines and errors go.
func WithTraceWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.trace = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

// WithPretty re-indents JSON response bodies.
func WithPretty(p bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.pretty = p
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(result *runner.Result) error {
	if f.verbose && result.Request != nil {
		f.formatRequest(result.Request)
	}

	resp := result.Response
	if resp == nil {
		return nil
	}

	if f.verbose {
		f.formatResponse(resp)
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Fprintf(f.trace, "%s\n", cyan(fmt.Sprintf("* %dms", result.Duration.Milliseconds())))
	}

	_, err := f.writer.Write(f.renderBody(resp))
	return err
}

func (f *ConsoleFormatter) formatRequest(req *http.Request) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	u := req.URL()
	fmt.Fprintf(f.trace, "> %s %s\n", bold(req.Method()), u.RequestURI())
	fmt.Fprintf(f.trace, "> %s %s\n", cyan("Host:"), u.Host)
	for _, h := range req.Headers().All() {
		fmt.Fprintf(f.trace, "> %s %s\n", cyan(h.Name+":"), h.Value)
	}
	if n := req.BodyLen(); n > 0 {
		fmt.Fprintf(f.trace, "> [%d bytes]\n", n)
	}
	fmt.Fprintf(f.trace, ">\n")
}

func (f *ConsoleFormatter) formatResponse(resp *http.Response) {
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(f.trace, "< %s %s\n", resp.Proto, statusColor(resp)(resp.Status))

	names := make([]string, 0, len(resp.Headers))
	for k := range resp.Headers {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		for _, v := range resp.Headers[k] {
			fmt.Fprintf(f.trace, "< %s %s\n", cyan(k+":"), v)
		}
	}
	fmt.Fprintf(f.trace, "<\n")
}

func (f *ConsoleFormatter) renderBody(resp *http.Response) []byte {
	if f.pretty && len(resp.Body) > 0 && gjson.ValidBytes(resp.Body) {
		return []byte(gjson.GetBytes(resp.Body, "@pretty").Raw)
	}
	return resp.Body
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.trace, "%s %v\n", red("Error:"), err)
}

// FormatFailure traces the built request when verbose, then the error.
func (f *ConsoleFormatter) FormatFailure(result *runner.Result, err error) {
	if f.verbose && result != nil && result.Request != nil {
		f.formatRequest(result.Request)
	}
	f.FormatError(err)
}

func statusColor(resp *http.Response) func(a ...any) string {
	switch {
	case resp.IsSuccess():
		return color.New(color.FgGreen).SprintFunc()
	case resp.IsRedirect():
		return color.New(color.FgYellow).SprintFunc()
	case resp.IsClientError(), resp.IsServerError():
		return color.New(color.FgRed).SprintFunc()
	default:
		return fmt.Sprint
	}
}
