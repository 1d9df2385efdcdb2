package middlewares_test

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/frontdoor/internal"
	"github.com/dmitrymomot/frontdoor/pkg/config"
	"github.com/dmitrymomot/frontdoor/pkg/logger"
	"github.com/dmitrymomot/frontdoor/pkg/page"
	"github.com/dmitrymomot/frontdoor/pkg/session"
)

// testContext is a bare Context for exercising middleware without the
// front controller.
type testContext struct {
	context.Context

	response http.ResponseWriter
	request  *http.Request
	page     *page.Document
	session  *session.Session
	module   string
	binding  internal.BindingKind
	status   int
	failed   bool
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{
		Context:  r.Context(),
		response: w,
		request:  r,
		page:     page.New(),
		session:  session.New("sid", "token", time.Now().Add(time.Hour)),
		module:   internal.ParseRoute(r.URL).Module,
		status:   http.StatusOK,
	}
}

func (c *testContext) Request() *http.Request           { return c.request }
func (c *testContext) Response() http.ResponseWriter    { return c.response }
func (c *testContext) Route() internal.Route            { return internal.ParseRoute(c.request.URL) }
func (c *testContext) Module() string                   { return c.module }
func (c *testContext) Binding() internal.BindingKind     { return c.binding }
func (c *testContext) Arg(i int) string                 { return c.Route().Arg(i) }
func (c *testContext) Query(name string) string         { return c.request.URL.Query().Get(name) }
func (c *testContext) Form(name string) string          { return c.request.FormValue(name) }
func (c *testContext) IsPost() bool                     { return c.request.Method == http.MethodPost }
func (c *testContext) Page() *page.Document             { return c.page }
func (c *testContext) Session() *session.Session        { return c.session }
func (c *testContext) IsAuthenticated() bool            { return c.session.IsAuthenticated() }
func (c *testContext) IsLocalUser() bool                { return c.session.IsLocalUser() }
func (c *testContext) LocalUserID() string              { return c.session.LocalUserID() }
func (c *testContext) Fail(error)                       { c.failed = true }
func (c *testContext) Failed() bool                     { return c.failed }
func (c *testContext) SetStatus(code int)               { c.status = code }
func (c *testContext) Status() int                      { return c.status }
func (c *testContext) Notice(msg string, args ...any)   {}
func (c *testContext) Info(msg string, args ...any)     {}
func (c *testContext) T(msg string, args ...any) string { return msg }
func (c *testContext) Language() string                 { return "en" }
func (c *testContext) BaseURL() string                  { return "" }
func (c *testContext) Config() config.Store             { return config.NewStatic(nil) }
func (c *testContext) Redirect(target string) error {
	http.Redirect(c.response, c.request, target, http.StatusFound)
	return nil
}
func (c *testContext) Written() bool                     { return false }
func (c *testContext) Logger() *slog.Logger              { return logger.NewNope() }
func (c *testContext) LogDebug(msg string, attrs ...any) {}
func (c *testContext) LogInfo(msg string, attrs ...any)  {}
func (c *testContext) LogWarn(msg string, attrs ...any)  {}
func (c *testContext) LogError(msg string, attrs ...any) {}

func (c *testContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
	c.Context = c.request.Context()
}

func (c *testContext) Get(key any) any { return c.Context.Value(key) }

var _ internal.Context = (*testContext)(nil)
