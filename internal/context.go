package internal

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/frontdoor/pkg/config"
	"github.com/dmitrymomot/frontdoor/pkg/l10n"
	"github.com/dmitrymomot/frontdoor/pkg/page"
	"github.com/dmitrymomot/frontdoor/pkg/session"
)

// Message ids the front controller emits. They are translation keys.
const (
	PageNotFound     = "Page not found."
	PermissionDenied = "Permission denied"
	AddonsNeedLogin  = "You must be logged in to use addons. "
	OWTWelcome       = "OpenWebAuth: %s welcomes %s"
	Overloaded       = "System is currently overloaded. Please try again later."
	DBUnavailable    = "Apologies but the website is unavailable at the moment."
)

// Context is the per-request state handed to modules, hooks and themes.
// It also implements context.Context by delegating to the request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the response writer. Writing to it ends the
	// lifecycle after the current phase.
	Response() http.ResponseWriter

	// Route returns the parsed request path.
	Route() Route

	// Module returns the resolved module name.
	Module() string

	// Binding returns the kind of handler the module resolved to. It is
	// BindingUnresolved until resolution succeeds.
	Binding() BindingKind

	// Arg returns the i-th path segment; Arg(0) is the module.
	Arg(i int) string

	// Query returns a query parameter of the (zrl/owt stripped) query string.
	Query(name string) string

	// Form returns a form value.
	Form(name string) string

	// IsPost reports whether the request method is POST.
	IsPost() bool

	// Page returns the page document under construction.
	Page() *page.Document

	// Session returns the visitor session. It is never nil.
	Session() *session.Session

	// IsAuthenticated reports a local user or a verified remote visitor.
	IsAuthenticated() bool

	// IsLocalUser reports a logged in local account.
	IsLocalUser() bool

	// LocalUserID returns the local account id or "".
	LocalUserID() string

	// Fail sets the request error flag. Remaining phases are skipped.
	// An *HTTPError also sets the status and queues its message.
	Fail(err error)

	// Failed reports whether the error flag is set.
	Failed() bool

	// SetStatus sets the status of the rendered page.
	SetStatus(code int)

	// Status returns the status the page will be rendered with.
	Status() int

	// Notice queues a translated error message for display.
	Notice(msg string, args ...any)

	// Info queues a translated informational message for display.
	Info(msg string, args ...any)

	// T translates msg into the request language.
	T(msg string, args ...any) string

	// Language returns the request language.
	Language() string

	// BaseURL returns the configured site URL without a trailing slash.
	BaseURL() string

	// Config returns the runtime configuration store.
	Config() config.Store

	// Redirect writes a 302 to target. Relative targets are resolved
	// against BaseURL. The lifecycle stops after the current phase.
	Redirect(target string) error

	// Written reports whether a response has been written.
	Written() bool

	// Logger returns the request logger.
	Logger() *slog.Logger

	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a request-scoped value.
	Set(key, value any)

	// Get returns a request-scoped value.
	Get(key any) any
}

type requestContext struct {
	request        *http.Request
	responseWriter *ResponseWriter
	logger         *slog.Logger
	config         config.Store
	translator     *l10n.Translator
	session        *session.Session
	page           *page.Document

	route   Route
	module  string
	binding BindingKind
	baseURL string
	status  int
	failed  bool

	mode   Mode
	addons []*Addon
}

func newRequestContext(w *ResponseWriter, r *http.Request, l *slog.Logger, cfg config.Store) *requestContext {
	return &requestContext{
		request:        r,
		responseWriter: w,
		logger:         l,
		config:         cfg,
		page:           page.New(),
		route:          ParseRoute(r.URL),
		status:         http.StatusOK,
	}
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.responseWriter
}

func (c *requestContext) Route() Route {
	return c.route
}

func (c *requestContext) Module() string {
	if c.module != "" {
		return c.module
	}
	return c.route.Module
}

func (c *requestContext) Binding() BindingKind {
	return c.binding
}

func (c *requestContext) Arg(i int) string {
	return c.route.Arg(i)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) IsPost() bool {
	return c.request.Method == http.MethodPost
}

func (c *requestContext) Page() *page.Document {
	return c.page
}

func (c *requestContext) Session() *session.Session {
	return c.session
}

func (c *requestContext) IsAuthenticated() bool {
	return c.session.IsAuthenticated()
}

func (c *requestContext) IsLocalUser() bool {
	return c.session.IsLocalUser()
}

func (c *requestContext) LocalUserID() string {
	return c.session.LocalUserID()
}

func (c *requestContext) Fail(err error) {
	c.failed = true
	if err == nil {
		return
	}
	if httpErr := AsHTTPError(err); httpErr != nil {
		c.status = httpErr.Code
		c.Notice(httpErr.Message)
		if httpErr.Err != nil {
			c.LogWarn("module failed", slog.Int("status", httpErr.Code), slog.Any("error", httpErr.Err))
		}
		return
	}
	c.LogError("module failed", slog.Any("error", err))
}

func (c *requestContext) Failed() bool {
	return c.failed
}

func (c *requestContext) SetStatus(code int) {
	if code > 0 {
		c.status = code
	}
}

func (c *requestContext) Status() int {
	return c.status
}

func (c *requestContext) Notice(msg string, args ...any) {
	if c.session != nil {
		c.session.AddNotice(c.T(msg, args...))
	}
}

func (c *requestContext) Info(msg string, args ...any) {
	if c.session != nil {
		c.session.AddInfo(c.T(msg, args...))
	}
}

func (c *requestContext) T(msg string, args ...any) string {
	return c.translator.T(msg, args...)
}

func (c *requestContext) Language() string {
	return c.translator.Language()
}

func (c *requestContext) BaseURL() string {
	return c.baseURL
}

func (c *requestContext) Config() config.Store {
	return c.config
}

func (c *requestContext) Redirect(target string) error {
	http.Redirect(c.responseWriter, c.request, c.resolveURL(target), http.StatusFound)
	return nil
}

// resolveURL prefixes relative targets with the base URL.
func (c *requestContext) resolveURL(target string) string {
	if strings.Contains(target, "://") || strings.HasPrefix(target, "/") {
		return target
	}
	return c.baseURL + "/" + target
}

func (c *requestContext) Written() bool {
	return c.responseWriter.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

var _ Context = (*requestContext)(nil)
