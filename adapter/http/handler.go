package http

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"

	"http-logger/domain/port"
	apierrors "http-logger/errors"
)

const maxBodyBytes = 1 << 20

// Credentials is the demo account accepted by LoginHandler.
type Credentials struct {
	Username string
	Password string
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Username string `json:"username"`
	Status   string `json:"status"`
}

// LoginHandler accepts a JSON username/password pair. Its request bodies
// carry the credentials the logging middleware has to mask.
type LoginHandler struct {
	account Credentials
	logger  port.Logger
}

func NewLoginHandler(account Credentials, logger port.Logger) *LoginHandler {
	if logger == nil {
		logger = &port.NopLogger{}
	}
	return &LoginHandler{account: account, logger: logger}
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		apierrors.WriteJSONError(w, apierrors.ErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		apierrors.WriteJSONErrorWithMsg(w, apierrors.ErrInvalidJSON, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		apierrors.WriteJSONError(w, apierrors.ErrBadRequest, http.StatusBadRequest)
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.account.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.account.Password)) == 1
	if !userOK || !passOK {
		h.logger.Warn("login rejected", port.String("username", req.Username))
		apierrors.WriteJSONError(w, apierrors.ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loginResponse{Username: req.Username, Status: "ok"})
}

// EchoHandler writes the request body back with the request's content type.
type EchoHandler struct{}

func NewEchoHandler() *EchoHandler {
	return &EchoHandler{}
}

func (h *EchoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		apierrors.WriteJSONErrorWithMsg(w, apierrors.ErrBadRequest, http.StatusBadRequest, err.Error())
		return
	}

	if ct := r.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	if ce := r.Header.Get("Content-Encoding"); ce != "" {
		w.Header().Set("Content-Encoding", ce)
	}
	w.Write(body)
}

// NewRouter registers the demo routes.
func NewRouter(health, login, echo http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/health", health)
	mux.Handle("/login", login)
	mux.Handle("/echo", echo)
	return mux
}
