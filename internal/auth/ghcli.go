package auth

import (
	ghauth "github.com/cli/go-gh/v2/pkg/auth"

	"github.com/appconf/appconf/internal/session"
)

// GHCLIProvider reads the token the gh CLI has configured for github.com.
// Lowest-priority fallback for users already signed in through gh.
func GHCLIProvider() TokenProvider {
	return func() (string, string, error) {
		token, source := ghauth.TokenForHost("github.com")
		if token == "" {
			return "", "", nil
		}

		return token, "gh:" + source, nil
	}
}

// SessionProvider reads the credential persisted in the session store.
func SessionProvider(sess *session.Context) TokenProvider {
	return func() (string, string, error) {
		if sess == nil || sess.Token == "" {
			return "", "", nil
		}

		return sess.Token, "session", nil
	}
}
