package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/hitcurl/packages/body"
	"github.com/abdul-hamid-achik/hitcurl/packages/core/config"
	"github.com/abdul-hamid-achik/hitcurl/packages/core/env"
	"github.com/abdul-hamid-achik/hitcurl/packages/core/options"
	"github.com/abdul-hamid-achik/hitcurl/packages/core/runner"
	"github.com/abdul-hamid-achik/hitcurl/packages/errs"
	"github.com/abdul-hamid-achik/hitcurl/packages/logging"
	"github.com/abdul-hamid-achik/hitcurl/packages/output"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// rootFlags holds everything bound to the root command's flags.
type rootFlags struct {
	req options.Flags

	showVersion  bool
	configPath   string
	envFile      string
	timeout      time.Duration
	insecure     bool
	location     bool
	maxRedirects int
	proxy        string
	format       string
	noColor      bool
}

func newRootCmd() *cobra.Command {
	rf := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "hitcurl [flags] <url>",
		Short: "Send one HTTP request, optionally signed.",
		Long: `hitcurl sends a single HTTP request described by curl-like flags.

With --access-key and --secret-key the request is signed before it is sent:
in an Authorization header by default, in the query string with --auth-url,
or as an upload policy signature with --auth-up-policy.

Examples:
  hitcurl https://example.com
  hitcurl -X POST --json -d '{"a":1}' https://example.com/x
  hitcurl -X PUT -d @photo.jpg --access-key AK --secret-key SK --region us-east-1 https://bucket.s3.amazonaws.com/photo.jpg
  hitcurl --auth-url --access-key AK --secret-key SK --region us-east-1 https://bucket.s3.amazonaws.com/photo.jpg
  hitcurl -F key=uploads/a.txt -F file=@a.txt --auth-up-policy @policy.json --auth-up-form --access-key AK --secret-key SK --region us-east-1 https://bucket.s3.amazonaws.com/`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rf.run(cmd, args); err != nil {
				return reportedError{err}
			}
			return nil
		},
	}

	f := cmd.Flags()
	r := &rf.req

	f.StringVarP(&r.Method, "request", "X", "", "HTTP method (default GET)")
	f.StringArrayVarP(&r.Headers, "header", "H", nil, `Header "Name: value" (repeatable)`)
	f.StringVarP(&r.Data, "data", "d", "", "Request body; @path reads a file, @- reads stdin")
	f.StringArrayVarP(&r.Form, "form", "F", nil, "Form field name=value, name=@file or name=<file (repeatable)")
	f.StringVarP(&r.UserAgent, "user-agent", "A", "", "User-Agent header")

	f.StringVar(&r.AccessKey, "access-key", "", "Access key used to sign the request")
	f.StringVar(&r.SecretKey, "secret-key", "", "Secret key used to sign the request")
	f.StringVar(&r.Auth, "auth", "", "Signing scheme: AWS4-HMAC-SHA256 (aws4, sigv4) or AWS (s3v2)")
	f.BoolVar(&r.AuthURL, "auth-url", false, "Sign into the query string instead of headers")
	f.StringVar(&r.AuthUpPolicy, "auth-up-policy", "", "Upload policy document to sign; @path reads a file")
	f.BoolVar(&r.AuthUpForm, "auth-up-form", false, "Send the signed policy as form fields instead of headers")
	f.StringVar(&r.Region, "region", "", "Region used when signing")
	f.StringVar(&r.Service, "service", "", "Service name used when signing (default s3)")
	f.DurationVar(&r.Expires, "auth-expires", 0, "Lifetime of a signed URL (default 1h, max 168h)")

	f.BoolVar(&r.JSON, "json", false, "Send Content-Type: application/json; -F fields become a JSON object")
	f.BoolVar(&r.Binary, "binary", false, "Send Content-Type: application/octet-stream")
	f.BoolVar(&r.FormURLEncoded, "form-urlencoded", false, "Send -F fields as application/x-www-form-urlencoded")
	f.StringVar(&r.ContentMD5, "content-md5", "", "Content-MD5 header (base64)")

	f.StringVarP(&r.Output, "output", "o", "", "Write the response body to a file")
	f.BoolVarP(&r.Verbose, "verbose", "v", false, "Show the request and response headers")
	f.BoolVar(&r.Pretty, "pretty", false, "Indent JSON response bodies")
	f.BoolVarP(&rf.showVersion, "version", "V", false, "Print version information and exit")

	f.StringVar(&rf.configPath, "config", "", "Path to config file (default .hitcurl.yaml in . or ~)")
	f.StringVar(&rf.envFile, "env-file", "", "Load environment variables from a .env file")
	f.DurationVar(&rf.timeout, "timeout", config.DefaultTimeout, "Request timeout")
	f.BoolVarP(&rf.insecure, "insecure", "k", false, "Skip TLS certificate verification")
	f.BoolVarP(&rf.location, "location", "L", false, "Follow redirects")
	f.IntVar(&rf.maxRedirects, "max-redirects", config.DefaultMaxRedirects, "Maximum redirects to follow with -L")
	f.StringVar(&rf.proxy, "proxy", "", "Proxy URL")
	f.StringVar(&rf.format, "format", "console", "Output format: console, json")
	cmd.PersistentFlags().BoolVar(&rf.noColor, "no-color", false, "Disable colored output")

	cmd.MarkFlagsMutuallyExclusive("json", "binary", "form-urlencoded")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

func (rf *rootFlags) run(cmd *cobra.Command, args []string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if rf.showVersion {
		printVersion(stdout)
		return nil
	}

	formatter, err := rf.formatter(stdout, stderr)
	if err != nil {
		output.NewConsoleFormatter(output.WithTraceWriter(stderr), output.WithNoColor(rf.noColor)).FormatError(err)
		return err
	}

	err = rf.send(cmd, args, formatter)
	if err != nil {
		formatter.FormatError(err)
	}
	return err
}

func (rf *rootFlags) send(cmd *cobra.Command, args []string, formatter *formatterSet) error {
	if rf.envFile != "" {
		if _, err := env.LoadAndExportDotEnv(rf.envFile); err != nil {
			return err
		}
	}

	cfg, err := config.Load(rf.configPath)
	if err != nil {
		return err
	}
	rf.applyConfig(cmd, cfg)

	if len(args) == 1 {
		rf.req.URL = args[0]
	}
	rf.req.HasData = cmd.Flags().Changed("data")
	if rf.req.UserAgent == "" {
		rf.req.UserAgent = "hitcurl/" + version
	}

	logger := logging.New(cmd.ErrOrStderr(), rf.req.Verbose, rf.noColor)
	if !cfg.IsDefault() {
		logger.Debug().Str("config", rf.configPath).Msg("applied config file and HITCURL_* defaults")
	}

	opts, err := options.New(rf.req)
	if err != nil {
		return err
	}
	logger.Debug().
		Str("method", opts.Method()).
		Str("mode", opts.SigningMode().String()).
		Msg("options validated")

	r, err := runner.NewRunner(&runner.Config{
		Timeout:        rf.timeout,
		FollowRedirect: rf.location,
		MaxRedirects:   rf.maxRedirects,
		Insecure:       rf.insecure,
		Proxy:          rf.proxy,
		Files:          body.OSFiles{Stdin: cmd.InOrStdin()},
		Logger:         &logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	formatter.verbose = opts.Verbose()
	result, err := r.Run(ctx, opts)
	if err != nil {
		formatter.failed = result
		return err
	}

	return formatter.result(result, opts)
}

// applyConfig fills flags the user did not set from the config file and
// HITCURL_* environment.
func (rf *rootFlags) applyConfig(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	setString := func(name string, dst *string, val string) {
		if !changed(name) && val != "" {
			*dst = val
		}
	}
	setString("user-agent", &rf.req.UserAgent, cfg.UserAgent)
	setString("region", &rf.req.Region, cfg.Region)
	setString("service", &rf.req.Service, cfg.Service)
	setString("auth", &rf.req.Auth, cfg.Auth)
	setString("proxy", &rf.proxy, cfg.Proxy)

	if !changed("access-key") && !changed("secret-key") && (cfg.AccessKey != "" || cfg.SecretKey != "") {
		rf.req.AccessKey = cfg.AccessKey
		rf.req.SecretKey = cfg.SecretKey
	}

	if !changed("auth-expires") {
		rf.req.Expires = cfg.GetExpires()
	}
	if !changed("timeout") {
		rf.timeout = cfg.GetTimeout()
	}
	if !changed("max-redirects") && cfg.MaxRedirects > 0 {
		rf.maxRedirects = cfg.MaxRedirects
	}
	if !changed("location") {
		rf.location = cfg.GetFollowRedirects()
	}
	if !changed("insecure") {
		rf.insecure = cfg.GetInsecure()
	}
	if !changed("pretty") {
		rf.req.Pretty = cfg.GetPretty()
	}
	if !changed("no-color") {
		rf.noColor = cfg.GetNoColor()
	}
}

// formatterSet renders results in the selected format and reports errors.
type formatterSet struct {
	format  string
	stdout  io.Writer
	stderr  io.Writer
	noColor bool
	verbose bool
	console *output.ConsoleFormatter
	json    *output.JSONFormatter

	// failed is the partial exchange of a request that was built but not
	// answered.
	failed *runner.Result
}

func (rf *rootFlags) formatter(stdout, stderr io.Writer) (*formatterSet, error) {
	fs := &formatterSet{
		format:  strings.ToLower(rf.format),
		stdout:  stdout,
		stderr:  stderr,
		noColor: rf.noColor,
	}
	switch fs.format {
	case "console":
		fs.console = output.NewConsoleFormatter(
			output.WithTraceWriter(stderr),
			output.WithNoColor(rf.noColor),
		)
	case "json":
		fs.json = output.NewJSONFormatter(output.WithJSONWriter(stdout))
	default:
		return nil, errs.New(errs.ErrInvalidOption, "--format %q must be console or json", rf.format)
	}
	return fs, nil
}

func (fs *formatterSet) FormatError(err error) {
	var f output.Formatter = fs.console
	if fs.json != nil {
		f = fs.json
	} else if fs.verbose {
		f = output.NewConsoleFormatter(
			output.WithTraceWriter(fs.stderr),
			output.WithVerbose(true),
			output.WithNoColor(fs.noColor),
		)
	}

	if fs.failed != nil {
		f.FormatFailure(fs.failed, err)
		return
	}
	f.FormatError(err)
}

// result writes the response body to -o or stdout. JSON bodies are only
// re-indented when written to the terminal.
func (fs *formatterSet) result(result *runner.Result, opts *options.Options) error {
	if fs.json != nil {
		return fs.json.FormatResult(result)
	}

	path := opts.Output()
	if path == "" {
		console := output.NewConsoleFormatter(
			output.WithWriter(fs.stdout),
			output.WithTraceWriter(fs.stderr),
			output.WithVerbose(opts.Verbose()),
			output.WithPretty(opts.Pretty()),
			output.WithNoColor(fs.noColor),
		)
		if err := console.FormatResult(result); err != nil {
			return errs.Wrap(errs.ErrOutputUnwritable, err, "writing response body")
		}
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrOutputUnwritable, err, "-o %s", path)
	}
	toFile := output.NewConsoleFormatter(
		output.WithWriter(file),
		output.WithTraceWriter(fs.stderr),
		output.WithVerbose(opts.Verbose()),
		output.WithNoColor(fs.noColor),
	)
	return closeOutput(file, path, toFile.FormatResult(result))
}

// closeOutput closes the -o file and reports the first of the write and
// close failures.
func closeOutput(c io.Closer, path string, writeErr error) error {
	closeErr := c.Close()
	if writeErr != nil {
		return errs.Wrap(errs.ErrOutputUnwritable, writeErr, "-o %s", path)
	}
	if closeErr != nil {
		return errs.Wrap(errs.ErrOutputUnwritable, closeErr, "-o %s", path)
	}
	return nil
}

// Main runs the CLI with the given arguments and returns the exit code.
func Main(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	code := ExitCode(err)
	if code == ExitUsageError {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintf(stderr, "Run 'hitcurl --help' for usage.\n")
	}
	return code
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	os.Exit(Main(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
