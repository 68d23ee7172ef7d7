package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hookhand/hookhand/internal/config"
	"github.com/hookhand/hookhand/internal/envmap"
	"github.com/hookhand/hookhand/internal/execution"
	"github.com/hookhand/hookhand/internal/log"
	"github.com/hookhand/hookhand/internal/script"
)

const welcomeMessage = "Welcome to HookHand!"

var (
	// ErrScriptsDirMissing means the scripts directory does not exist.
	ErrScriptsDirMissing = errors.New("scripts directory missing")

	// ErrMalformedBody means a JSON request body could not be parsed.
	ErrMalformedBody = errors.New("malformed request body")
)

//go:generate mockgen -destination=mocks/mock_resolver.go -package=mocks github.com/hookhand/hookhand/internal/dispatch ScriptResolver

// ScriptResolver finds executable scripts by name.
type ScriptResolver interface {
	Resolve(name string) (*script.Descriptor, bool)
	Dir() string
	Exists() bool
}

// Inbound is a transport-neutral view of one HTTP request.
type Inbound struct {
	Method      string
	Path        string
	Query       url.Values
	ContentType string
	Header      http.Header
	Body        []byte
	ReceivedAt  time.Time
	RequestID   string
}

// Response is the rendered reply.
type Response struct {
	Status int
	Body   string
}

// ScriptRequest is a request that matched a script.
type ScriptRequest struct {
	ScriptName     string
	PathParameters []string
	BodyParameters envmap.Value
	Foreground     bool
	GitHubEvent    string
	ReceivedAt     time.Time
}

// Dispatcher turns inbound requests into script sessions.
type Dispatcher struct {
	resolver ScriptResolver
	cfg      config.ScriptsConfig

	environ func() []string
	now     func() time.Time
}

// New creates a new Dispatcher.
func New(resolver ScriptResolver, cfg config.ScriptsConfig) *Dispatcher {
	defaults := config.DefaultScriptsConfig()
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = defaults.GracePeriod
	}
	if cfg.BackgroundCheck <= 0 {
		cfg.BackgroundCheck = defaults.BackgroundCheck
	}
	return &Dispatcher{
		resolver: resolver,
		cfg:      cfg,
		environ:  os.Environ,
		now:      time.Now,
	}
}

// Handle serves one request. Only a missing scripts directory and a malformed
// JSON body are returned as errors; every other outcome is a Response.
func (d *Dispatcher) Handle(ctx context.Context, in *Inbound) (*Response, error) {
	if in.ReceivedAt.IsZero() {
		in.ReceivedAt = d.now()
	}
	logger := log.WithRequest(in.RequestID)

	segments := splitPath(in.Path)
	if len(segments) == 0 {
		return &Response{Status: http.StatusOK, Body: welcomeMessage}, nil
	}
	name, params := segments[0], segments[1:]

	if !d.resolver.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrScriptsDirMissing, d.resolver.Dir())
	}

	desc, ok := d.resolver.Resolve(name)
	if !ok {
		logger.Info("script not found", "script", name)
		return &Response{
			Status: http.StatusNotFound,
			Body:   fmt.Sprintf("No script named '%s' found!", name),
		}, nil
	}

	req, err := buildRequest(in, name, params, logger)
	if err != nil {
		return nil, err
	}

	return d.run(ctx, desc, req, logger), nil
}

func buildRequest(in *Inbound, name string, params []string, logger *slog.Logger) (*ScriptRequest, error) {
	req := &ScriptRequest{
		ScriptName:     name,
		PathParameters: params,
		BodyParameters: envmap.Mapping(),
		GitHubEvent:    in.Header.Get("X-GitHub-Event"),
		ReceivedAt:     in.ReceivedAt,
	}

	flags := in.Query
	mediaType, _, _ := mime.ParseMediaType(in.ContentType)
	switch mediaType {
	case "application/json":
		v, err := envmap.ParseJSONBytes(in.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		req.BodyParameters = v
	case "application/x-www-form-urlencoded":
		form, err := url.ParseQuery(string(in.Body))
		if err != nil {
			logger.Warn("ignoring unparseable form pairs", "error", err)
		}
		merged := url.Values{}
		for k, vs := range in.Query {
			merged[k] = append(merged[k], vs...)
		}
		for k, vs := range form {
			merged[k] = append(merged[k], vs...)
		}
		req.BodyParameters = envmap.FromForm(merged)
		flags = merged
	}

	_, background := flags["background"]
	req.Foreground = !background
	return req, nil
}

func (d *Dispatcher) run(ctx context.Context, desc *script.Descriptor, req *ScriptRequest, reqLog *slog.Logger) *Response {
	logger := reqLog.With("script", req.ScriptName, "foreground", req.Foreground)

	spec := execution.Spec{
		Path:           desc.Path,
		Args:           req.PathParameters,
		Env:            d.environment(req),
		MaxOutputBytes: d.cfg.OutputLimit(),
	}
	if req.Foreground {
		spec.TimeoutNotice = fmt.Sprintf("---\nTimed out after %d seconds!\n", int(d.cfg.RequestTimeout/time.Second))
	}

	header := fmt.Sprintf("Running script '%s' with parameters %s:\n---\n", req.ScriptName, formatParams(req.PathParameters))

	session, err := execution.Start(spec,
		execution.WithGracePeriod(d.cfg.GracePeriod),
		execution.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to start script", "path", desc.Path, "error", err)
		return render(http.StatusInternalServerError, header, err.Error()+"\n",
			fmt.Sprintf("Ran script '%s' unsuccessfully :(", req.ScriptName))
	}

	if !req.Foreground {
		state := session.Wait(ctx, d.cfg.BackgroundCheck)
		session.Detach()
		logger.Info("script running in background", "check", state.String())
		return render(http.StatusAccepted, header, "",
			fmt.Sprintf("Running script '%s' in the background", req.ScriptName))
	}

	budget := d.cfg.RequestTimeout - d.now().Sub(req.ReceivedAt)
	res := session.Run(ctx, budget)
	if res.State == execution.StateTimedOut {
		logger.Warn("script timed out", "timeout", d.cfg.RequestTimeout.String())
	}

	if res.Success {
		return render(http.StatusOK, header, res.Output,
			fmt.Sprintf("Ran script '%s' successfully :D", req.ScriptName))
	}
	return render(http.StatusInternalServerError, header, res.Output,
		fmt.Sprintf("Ran script '%s' unsuccessfully :(", req.ScriptName))
}

// environment is the host environment plus the request variables, with the
// scripts directory appended to PATH for this child only.
func (d *Dispatcher) environment(req *ScriptRequest) []string {
	overrides := envmap.Build(req.BodyParameters, req.GitHubEvent)

	host := d.environ()
	env := make([]string, 0, len(host)+len(overrides)+1)
	path := ""
	for _, kv := range host {
		k, v, _ := strings.Cut(kv, "=")
		if k == "PATH" {
			path = v
			continue
		}
		if _, ok := overrides[k]; ok {
			continue
		}
		env = append(env, kv)
	}
	env = append(env, overrides.Pairs()...)

	dir := d.resolver.Dir()
	if path != "" {
		dir = path + string(os.PathListSeparator) + dir
	}
	return append(env, "PATH="+dir)
}

func render(status int, header, output, trailer string) *Response {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString(output)
	if output != "" && !strings.HasSuffix(output, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("---\n")
	b.WriteString(trailer)
	b.WriteByte('\n')
	return &Response{Status: status, Body: b.String()}
}

func splitPath(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func formatParams(params []string) string {
	quoted := make([]string, len(params))
	for i, p := range params {
		quoted[i] = strconv.Quote(p)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
