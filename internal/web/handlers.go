package web

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/renanmoutaa/Portal-Cativo/internal/clients"
	"github.com/renanmoutaa/Portal-Cativo/internal/config"
	"github.com/renanmoutaa/Portal-Cativo/internal/login"
	"github.com/renanmoutaa/Portal-Cativo/models"
)

type Handler struct {
	loginService   *login.Service
	clientsService *clients.Service
	config         *config.Config
}

func NewHandler(loginService *login.Service, clientsService *clients.Service, cfg *config.Config) *Handler {
	return &Handler{
		loginService:   loginService,
		clientsService: clientsService,
		config:         cfg,
	}
}

// AuthLogin handles POST /auth/login
func (h *Handler) AuthLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := h.loginService.Submit(r.Context(), &req, clientIP(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, login.ErrTermsNotAccepted) || errors.Is(err, login.ErrNoContact) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Login submission failed: %v", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// ConnectedClients handles GET /clients/connected
func (h *Handler) ConnectedClients(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	controllerID := 0
	if raw := query.Get("controllerId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "controllerId must be numeric")
			return
		}
		controllerID = id
	}

	response, err := h.clientsService.GetConnected(r.Context(), query.Get("ssid"), controllerID, query.Get("siteId"))
	if err != nil {
		log.Printf("Connected clients query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load connected clients")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"upstream": h.config.UpstreamBaseURL,
	})
}

// AdminRestart handles POST /admin/restart. The process exits shortly after
// responding; the supervisor owns the actual restart.
func (h *Handler) AdminRestart(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Admin-Secret") != h.config.RestartSecret {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "restarting"})
	go func() {
		time.Sleep(500 * time.Millisecond)
		os.Exit(0)
	}()
}

// clientIP prefers the first X-Forwarded-For hop over the socket address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		log.Printf("Encoding response failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
