package cart

import (
	"net/http"

	"github.com/google/uuid"
)

const SessionCookie = "cart_session"

// SessionID returns the caller's cart session id, issuing a new cookie when
// the request has none.
func SessionID(w http.ResponseWriter, r *http.Request) string {
	if id, ok := ExistingSessionID(r); ok {
		return id
	}
	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func ExistingSessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}
