package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/Srivenkatesh03/playto/internal/auth"
	"github.com/Srivenkatesh03/playto/internal/feed"
	"github.com/Srivenkatesh03/playto/internal/models"
)

type Handler struct {
	store    *feed.Store
	sessions *auth.Manager
}

func New(store *feed.Store, sessions *auth.Manager) *Handler {
	return &Handler{store: store, sessions: sessions}
}

// Router wires the JSON API. Reads are public, writes need a session.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/posts", h.ListPosts).Methods(http.MethodGet)
	api.HandleFunc("/posts", h.requireAuth(h.CreatePost)).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id:[0-9]+}", h.GetPost).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id:[0-9]+}", h.requireAuth(h.UpdatePost)).Methods(http.MethodPatch)
	api.HandleFunc("/posts/{id:[0-9]+}", h.requireAuth(h.DeletePost)).Methods(http.MethodDelete)
	api.HandleFunc("/posts/{id:[0-9]+}/like", h.requireAuth(h.LikePost)).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id:[0-9]+}/comments", h.requireAuth(h.CreateComment)).Methods(http.MethodPost)

	api.HandleFunc("/comments/{id:[0-9]+}", h.requireAuth(h.UpdateComment)).Methods(http.MethodPatch)
	api.HandleFunc("/comments/{id:[0-9]+}", h.requireAuth(h.DeleteComment)).Methods(http.MethodDelete)
	api.HandleFunc("/comments/{id:[0-9]+}/reply", h.requireAuth(h.ReplyToComment)).Methods(http.MethodPost)
	api.HandleFunc("/comments/{id:[0-9]+}/like", h.requireAuth(h.LikeComment)).Methods(http.MethodPost)

	api.HandleFunc("/leaderboard", h.Leaderboard).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.requireAuth(h.Logout)).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", h.requireAuth(h.Me)).Methods(http.MethodGet)

	return r
}

type authedHandler func(w http.ResponseWriter, r *http.Request, userID int64)

func (h *Handler) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := h.sessions.CurrentUserID(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, uid)
	}
}

// -------- posts

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	posts, err := h.store.ListPosts(page, pageSize)
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request, userID int64) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content required")
		return
	}
	post, err := h.store.CreatePost(userID, req.Content)
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

type postDetail struct {
	models.Post
	Comments []*models.CommentNode `json:"comments"`
}

// GetPost returns the post with its full comment tree. The tree comes from
// one comment fetch plus an in-memory pass, regardless of nesting depth.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	post, err := h.store.GetPost(id)
	if err != nil {
		h.storeError(w, err)
		return
	}
	comments, err := h.store.CommentsForPost(id)
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postDetail{Post: *post, Comments: feed.BuildCommentTree(comments)})
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request, userID int64) {
	id := pathID(r)
	post, err := h.store.GetPost(id)
	if err != nil {
		h.storeError(w, err)
		return
	}
	if post.UserID != userID {
		writeError(w, http.StatusForbidden, "not your post")
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content required")
		return
	}
	updated, err := h.store.UpdatePost(id, req.Content)
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request, userID int64) {
	id := pathID(r)
	post, err := h.store.GetPost(id)
	if err != nil {
		h.storeError(w, err)
		return
	}
	if post.UserID != userID {
		writeError(w, http.StatusForbidden, "not your post")
		return
	}
	if err := h.store.DeletePost(id); err != nil {
		h.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request, userID int64) {
	state, err := h.store.ToggleLike(userID, models.TargetPost, pathID(r))
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// -------- comments

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request, userID int64) {
	postID := pathID(r)
	var req struct {
		Content string `json:"content"`
		Parent  *int64 `json:"parent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content required")
		return
	}
	comment, err := h.store.CreateComment(postID, req.Parent, userID, req.Content)
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *Handler) ReplyToComment(w http.ResponseWriter, r *http.Request, userID int64) {
	parentID := pathID(r)
	parent, err := h.store.GetComment(parentID)
	if err != nil {
		h.storeError(w, err)
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content required")
		return
	}
	comment, err := h.store.CreateComment(parent.PostID, &parentID, userID, req.Content)
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request, userID int64) {
	id := pathID(r)
	comment, err := h.store.GetComment(id)
	if err != nil {
		h.storeError(w, err)
		return
	}
	if comment.UserID != userID {
		writeError(w, http.StatusForbidden, "not your comment")
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content required")
		return
	}
	updated, err := h.store.UpdateComment(id, req.Content)
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request, userID int64) {
	id := pathID(r)
	comment, err := h.store.GetComment(id)
	if err != nil {
		h.storeError(w, err)
		return
	}
	if comment.UserID != userID {
		writeError(w, http.StatusForbidden, "not your comment")
		return
	}
	if err := h.store.DeleteComment(id); err != nil {
		h.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) LikeComment(w http.ResponseWriter, r *http.Request, userID int64) {
	state, err := h.store.ToggleLike(userID, models.TargetComment, pathID(r))
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// -------- leaderboard

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.Leaderboard(time.Now())
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// -------- auth

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email, username and password required")
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	user, err := h.store.CreateUser(req.Email, req.Username, hash)
	if errors.Is(err, feed.ErrDuplicate) {
		writeError(w, http.StatusBadRequest, "email or username already taken")
		return
	} else if err != nil {
		h.storeError(w, err)
		return
	}
	if err := h.sessions.Create(w, user.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, err := h.store.UserByEmail(strings.TrimSpace(req.Email))
	if errors.Is(err, feed.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "wrong email or password")
		return
	} else if err != nil {
		h.storeError(w, err)
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "wrong email or password")
		return
	}
	h.sessions.DestroyAllFor(user.ID)
	if err := h.sessions.Create(w, user.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, userID int64) {
	h.sessions.Destroy(w, r)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request, userID int64) {
	user, err := h.store.UserByID(userID)
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// -------- helpers

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func (h *Handler) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, feed.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, feed.ErrParentMismatch):
		writeError(w, http.StatusBadRequest, "parent comment must belong to the same post")
	case errors.Is(err, feed.ErrDuplicate):
		writeError(w, http.StatusBadRequest, "already exists")
	default:
		log.Printf("store error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
