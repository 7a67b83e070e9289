package web

import (
	"errors"
	"net/http"

	"github.com/erazemk/rfidash/internal/auth"
)

type signInData struct {
	PageData
	Email string
}

// SignInPage handles GET /signin.
func (s *Server) SignInPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "signin.html", &signInData{
		PageData: PageData{Title: "Sign in", Flash: popFlash(w, r)},
	})
}

// SignInSubmit handles POST /signin.
func (s *Server) SignInSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")

	session, token, err := s.Sessions.SignIn(email)
	if err != nil {
		msg := "Could not sign in."
		if errors.Is(err, auth.ErrInvalidEmail) {
			msg = "Enter a valid email address."
		} else {
			requestLogger(r).Error("failed to sign in", "error", err)
		}
		s.Templates.RenderStatus(w, http.StatusBadRequest, "signin.html", &signInData{
			PageData: PageData{Title: "Sign in", Flash: &Flash{Kind: FlashError, Message: msg}},
			Email:    email,
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Expires:  session.ExpiresAt,
	})

	requestLogger(r).Info("operator signed in", "email", session.Email)
	redirectFlash(w, r, "/", FlashSuccess, "Signed in as "+session.Email+".")
}

// SignOut handles POST /signout.
func (s *Server) SignOut(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if session, err := s.Sessions.Verify(c.Value); err == nil {
			requestLogger(r).Info("operator signed out", "email", session.Email)
		}
	}
	clearSessionCookie(w)
	redirectFlash(w, r, "/signin", FlashSuccess, "Signed out.")
}
