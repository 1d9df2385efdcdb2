package internal

import (
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrymomot/frontdoor/pkg/hook"
)

// Initer runs first for every resolved module.
type Initer interface {
	Init(c Context) error
}

// RawContenter writes a complete response itself. The lifecycle stops after
// it returns.
type RawContenter interface {
	RawContent(c Context) error
}

// Poster handles POST requests.
type Poster interface {
	Post(c Context) error
}

// AfterPoster runs after Post, also for non-POST requests.
type AfterPoster interface {
	AfterPost(c Context) error
}

// Contenter returns the HTML appended to the page content.
type Contenter interface {
	Content(c Context) (string, error)
}

// FuncModule is a module made of optional functions. Addons use it; it has
// no raw content phase.
type FuncModule struct {
	Init      func(c Context) error
	Post      func(c Context) error
	AfterPost func(c Context) error
	Content   func(c Context) (string, error)
}

// Addon is a statically registered extension. It may contribute hooks, an
// app menu entry, and a module served under its name.
type Addon struct {
	// Name is the addon id and, when Module is set, the module it serves.
	Name string
	// App lists the addon in the apps menu. Apps are hidden from anonymous
	// callers when system.private_addons is "1".
	App bool
	// Label is the apps menu text. Defaults to Name.
	Label string
	// Module serves /<Name>.
	Module *FuncModule
	// Hooks are registered for the addon's lifetime.
	Hooks map[string]hook.Func

	registry *hook.Registry
}

func (a *Addon) label() string {
	if a.Label != "" {
		return a.Label
	}
	return a.Name
}

// isController reports whether v implements at least one phase.
func isController(v any) bool {
	switch v.(type) {
	case Initer, RawContenter, Poster, AfterPoster, Contenter:
		return true
	}
	return false
}

// controllerName is the exported type name a module maps to.
func controllerName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}

// ucfirst upper-cases the first rune of s.
func ucfirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// BindingKind tags the handler a request resolved to.
type BindingKind int

const (
	BindingUnresolved BindingKind = iota
	BindingAddon
	BindingController
	BindingFile
)

func (k BindingKind) String() string {
	switch k {
	case BindingAddon:
		return "addon"
	case BindingController:
		return "controller"
	case BindingFile:
		return "file"
	default:
		return "unresolved"
	}
}

// Binding is the result of module resolution. Exactly one of Addon,
// Controller or File is set, matching Kind.
type Binding struct {
	Kind       BindingKind
	Module     string
	Addon      *Addon
	Controller any
	File       string
}

// name returns a printable handler name for logs.
func (b Binding) name() string {
	switch b.Kind {
	case BindingAddon:
		return b.Addon.Name
	case BindingController:
		return controllerName(b.Controller)
	case BindingFile:
		return b.File
	default:
		return b.Kind.String()
	}
}
