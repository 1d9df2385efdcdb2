// Package cookie writes and reads cookies that share one set of
// attributes, optionally signed with HMAC-SHA256.
//
// The session cookie is the main user:
//
//	m := cookie.New(
//		cookie.WithSecret(os.Getenv("FRONTDOOR_SESSION_SECRET")),
//		cookie.WithSecure(true),
//	)
//	m.Write(w, "__sid", token, 86400)
//	token, err := m.Read(r, "__sid")
//
// Without a secret, values are written as is. With one, a tampered value
// reads as [ErrBadSig].
package cookie
