package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"iambic/iambic"
	"iambic/logger"

	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	maxRequestBytes = 1 << 20
	MaxPostLength   = 4096
)

// Checker validates poem text line by line; *iambic.Validator is one.
type Checker interface {
	CheckStanza(text string) []iambic.ValidationResult
}

type HTTPHandler struct {
	manager  iambic.Manager
	checker  Checker
	validate *validator.Validate
	policy   *bluemonday.Policy
}

type Options struct {
	Addr           string
	AllowedOrigins []string
}

func NewServer(manager iambic.Manager, checker Checker, opts Options) *http.Server {
	srv := &http.Server{
		Addr:         opts.Addr,
		Handler:      NewRouter(manager, checker, opts.AllowedOrigins),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return srv
}

func NewRouter(manager iambic.Manager, checker Checker, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	handler := HTTPHandler{
		manager:  manager,
		checker:  checker,
		validate: newValidate(),
		policy:   bluemonday.StrictPolicy(),
	}

	r.HandleFunc("/posts", handler.ListPosts).Methods(http.MethodGet)
	r.HandleFunc("/posts", handler.CreatePost).Methods(http.MethodPost)
	r.HandleFunc("/posts/{id:[0-9]+}", handler.GetPost).Methods(http.MethodGet)
	r.HandleFunc("/validate", handler.Validate).Methods(http.MethodPost)
	r.HandleFunc("/maintenance/ping", handler.CheckIsReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.Use(requestLogging, metricsMiddleware)

	// preflight requests never reach the router, which would answer 405
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	})(r)
}

// PostRequest is the body of POST /posts and POST /validate.
type PostRequest struct {
	Body *string `json:"body" validate:"required,maxbytes=4096"`
}

// newValidate adds maxbytes, a limit on encoded length; the built-in max
// counts runes.
func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= limit
	})
	return v
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

func writeError(w http.ResponseWriter, status int, message string) {
	raw, _ := json.Marshal(ErrorResponse{Message: message, Code: status})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

func (h *HTTPHandler) decodeValidate(w http.ResponseWriter, r *http.Request, body any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(body); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return errors.New("body is invalid json")
	}
	if err := h.validate.Struct(body); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("field %s failed %s validation", strings.ToLower(verrs[0].Field()), verrs[0].Tag())
		}
		return err
	}
	return nil
}

// sanitize drops markup from a post. Bodies are plain text; clients escape
// them when rendering.
func (h *HTTPHandler) sanitize(body string) string {
	return html.UnescapeString(h.policy.Sanitize(body))
}

func (h *HTTPHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := h.decodeValidate(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.manager.AddPost(r.Context(), h.sanitize(*req.Body))
	if err != nil {
		logger.Log.Error("failed to create post", "component", "httpapi", "error", err)
		writeError(w, http.StatusInternalServerError, "could not save post")
		return
	}
	logger.Log.Info("created post", "component", "httpapi", "id", post.ID)
	writeJSON(w, http.StatusCreated, post)
}

func (h *HTTPHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	post, err := h.manager.GetPost(r.Context(), id)
	if errors.Is(err, iambic.ErrNotFound) {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		logger.Log.Error("failed to fetch post", "component", "httpapi", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *HTTPHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.manager.ListPosts(r.Context())
	if err != nil {
		logger.Log.Error("failed to list posts", "component", "httpapi", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load posts")
		return
	}
	if posts == nil {
		posts = []iambic.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *HTTPHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := h.decodeValidate(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.checker.CheckStanza(*req.Body))
}

func (h *HTTPHandler) CheckIsReady(w http.ResponseWriter, r *http.Request) {
	if !h.manager.IsReady(r.Context()) {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}
