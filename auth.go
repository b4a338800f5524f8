package littlehouse

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/eringen/littlehouse/i18n"
)

const (
	tokenPrefix    = "study-auth-"
	headerAuthTime = "X-Auth-Time"
)

// AuthToken is a bearer credential for the authoring API, sent back as
// "Authorization: Bearer <Token>" together with "X-Auth-Time: <AuthTime>".
type AuthToken struct {
	Token    string `json:"token"`
	AuthTime string `json:"authTime"`
}

// IssueToken signs the given login time with the session secret.
func (a *App) IssueToken(at time.Time) AuthToken {
	stamp := at.UTC().Format(time.RFC3339)
	return AuthToken{Token: tokenPrefix + a.sign(stamp), AuthTime: stamp}
}

func (a *App) sign(stamp string) string {
	mac := hmac.New(sha256.New, []byte(a.Config.SessionSecret))
	mac.Write([]byte(stamp))
	return hex.EncodeToString(mac.Sum(nil))
}

// validToken checks the header pair: the signature must match the stamp
// and the stamp must be no older than AuthTTL.
func (a *App) validToken(authorization, stamp string) bool {
	token, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok || stamp == "" {
		return false
	}
	at, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return false
	}
	age := a.now().Sub(at)
	if age < -time.Minute || age > a.Config.AuthTTL {
		return false
	}
	want := tokenPrefix + a.sign(stamp)
	return hmac.Equal([]byte(token), []byte(want))
}

// checkPassword compares against the bcrypt hash when one is configured.
// With neither a hash nor a password set, every attempt fails.
func (a *App) checkPassword(pass string) bool {
	if h := a.Config.AdminPasswordHash; h != "" {
		return bcrypt.CompareHashAndPassword([]byte(h), []byte(pass)) == nil
	}
	if a.Config.AdminPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1
}

// IsAuthor reports whether the request carries a valid bearer header pair
// or a signed-in study session.
func (a *App) IsAuthor(c echo.Context) bool {
	req := c.Request()
	if auth := req.Header.Get(echo.HeaderAuthorization); auth != "" {
		return a.validToken(auth, req.Header.Get(headerAuthTime))
	}
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	stamp, ok := sess.Values["auth_time"].(string)
	if !ok {
		return false
	}
	at, err := time.Parse(time.RFC3339, stamp)
	return err == nil && a.now().Sub(at) <= a.Config.AuthTTL
}

// requireAuthor rejects unauthenticated requests with 401.
func (a *App) requireAuthor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !a.IsAuthor(c) {
			return jsonError(c, http.StatusUnauthorized, i18n.MsgUnauthorized)
		}
		return next(c)
	}
}

func setStudySession(c echo.Context, stamp string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values["auth_time"] = stamp
	return sess.Save(c.Request(), c.Response())
}

func clearStudySession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// HashPassword returns a bcrypt hash suitable for AdminPasswordHash.
func HashPassword(pass string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
