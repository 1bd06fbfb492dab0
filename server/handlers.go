package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sounak286/RAKSHA-SATHI/auth"
	"github.com/sounak286/RAKSHA-SATHI/bulletins"
	"github.com/sounak286/RAKSHA-SATHI/goodwork"
	apperrors "github.com/sounak286/RAKSHA-SATHI/internal/errors"
	"github.com/sounak286/RAKSHA-SATHI/token"
)

const maxRequestBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("failed to encode response")
	}
}

// writeRawJSON writes an upstream payload without re-encoding it.
func writeRawJSON(w http.ResponseWriter, status int, payload json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		log.Err(err).Msg("failed to write response")
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error": message}. Only the public message is
// sent; the cause of server-side failures is logged.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": apperrors.PublicMessage(err)})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.ErrValidation, "Invalid request body", err)
	}
	return nil
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "OK",
			"timestamp": s.nowTime().UTC().Format(time.RFC3339),
			"service":   s.config.Server.AppName,
		})
	}
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.RegisterRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, err)
			return
		}

		userID, err := s.auth.Register(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "User registered successfully",
			"userId":  userID,
		})
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, err)
			return
		}

		result, err := s.auth.Login(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":   "Login successful",
			"token":     result.Token,
			"expiresAt": result.ExpiresAt,
			"user":      result.User,
		})
	}
}

func (s *Server) ProfileHandler() ProtectedHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, claims *token.Claims) {
		user, err := s.auth.Profile(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": user})
	}
}

func (s *Server) AnalyticsHandler() ProtectedHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ *token.Claims) {
		payload, err := s.gateway.Fetch(r.Context(), r.PathValue("key"), r.URL.Query())
		if err != nil {
			writeError(w, err)
			return
		}
		writeRawJSON(w, http.StatusOK, payload)
	}
}

func (s *Server) GoodWorkHandler() ProtectedHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, claims *token.Claims) {
		var submission goodwork.Submission
		if err := decodeBody(w, r, &submission); err != nil {
			writeError(w, err)
			return
		}

		payload, err := s.gateway.SubmitGoodWork(r.Context(), submission, claims)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Good work entry submitted successfully",
			"data":    payload,
		})
	}
}

func (s *Server) PressReleasesHandler() ProtectedHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ *token.Claims) {
		releases, err := s.bulletins.PressReleases(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, releases)
	}
}

func (s *Server) CreatePressReleaseHandler() ProtectedHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, claims *token.Claims) {
		var req bulletins.CreatePressReleaseRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, err)
			return
		}

		id, err := s.bulletins.CreatePressRelease(r.Context(), claims, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Press release created successfully",
			"id":      id,
		})
	}
}

func (s *Server) CrimeAlertsHandler() ProtectedHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ *token.Claims) {
		alerts, err := s.bulletins.CrimeAlerts(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, alerts)
	}
}

func (s *Server) CreateCrimeAlertHandler() ProtectedHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, claims *token.Claims) {
		var req bulletins.CreateCrimeAlertRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, err)
			return
		}

		id, err := s.bulletins.CreateCrimeAlert(r.Context(), claims, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Crime alert created successfully",
			"id":      id,
		})
	}
}

// AdminUsersListHandler lists every registered user
func (s *Server) AdminUsersListHandler() ProtectedHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, claims *token.Claims) {
		list, err := s.auth.ListUsers(r.Context(), claims)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) AdminUpdateRoleHandler() ProtectedHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, claims *token.Claims) {
		if err := auth.RequireAdmin(claims); err != nil {
			writeError(w, err)
			return
		}

		userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeError(w, auth.UserNotFoundErr)
			return
		}

		var req auth.UpdateRoleRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, err)
			return
		}

		if err := s.auth.UpdateRole(r.Context(), claims, userID, req.Role); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "User role updated successfully"})
	}
}
