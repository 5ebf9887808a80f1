package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"chemtrade/internal/middleware"
	"chemtrade/internal/session"
	"chemtrade/internal/store"
)

// totpIssuer is the issuer shown in authenticator apps.
const totpIssuer = "ChemTrade"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions  *session.Store
	userStore store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore store.UserStore) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates credentials and opens a session with TwoFADone=false.
// The response tells the client whether to continue with 2FA setup or
// verification.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		respondInternal(w, "login lookup", err)
		return
	}

	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	// TwoFADone starts as false: every login must pass the TOTP challenge.
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		TwoFADone:   false,
	})
	if err != nil {
		respondInternal(w, "session create", err)
		return
	}

	next := "verify"
	if user.Needs2FASetup() {
		next = "setup"
	}
	respondJSON(w, http.StatusOK, map[string]string{"two_fa": next})
}

// TwoFASetup generates a TOTP secret for the logged-in user and returns
// the otpauth QR code as base64 PNG plus the secret for manual entry.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		respondInternal(w, "totp generate", err)
		return
	}

	if err := a.userStore.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		respondInternal(w, "save totp secret", err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		respondInternal(w, "qr code generation", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"qr_png": base64.StdEncoding.EncodeToString(qrPNG),
		"secret": key.Secret(),
	})
}

type twoFAVerifyRequest struct {
	Code string `json:"code"`
}

// TwoFAVerify validates the TOTP code and completes authentication.
// On first-time setup a valid code also enables TOTP for the account.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req twoFAVerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		respondInternal(w, "user lookup for 2fa", err)
		return
	}

	if user.TOTPSecret == nil {
		respondError(w, http.StatusConflict, "two-factor setup has not been started")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		respondError(w, http.StatusUnauthorized, "invalid code")
		return
	}

	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			respondInternal(w, "enable totp", err)
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		respondInternal(w, "session update", err)
		return
	}

	slog.Info("admin authenticated", "email", sess.Email)
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me returns the authenticated user's session identity.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"user_id":      sess.UserID,
		"email":        sess.Email,
		"display_name": sess.DisplayName,
		"role":         sess.Role,
		"two_fa_done":  sess.TwoFADone,
	})
}
