package modules

import (
	"context"
	"embed"
	"io/fs"
)

//go:embed mod
var files embed.FS

// Files returns the built-in file modules (mod/*.md).
func Files() fs.FS {
	return files
}

// Accounts looks up local users. *db.Users implements it.
type Accounts interface {
	ByNickname(ctx context.Context, nickname string) (string, error)
}

// Defaults returns the built-in controllers. accounts may be nil; Login
// then rejects every attempt and Xrd answers 404.
func Defaults(accounts Accounts, auth Authenticator) []any {
	return []any{
		&Home{},
		&Login{Auth: auth},
		&Xrd{Accounts: accounts},
		&Install{},
		&Maintenance{},
	}
}
