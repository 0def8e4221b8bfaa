// Package admin is the content management console mounted under /admin.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/blogfront/internal/guard"
	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/web/middleware"
)

// Register mounts the console on r. r must already run the Session middleware.
// Editors may manage content; only admins see the user list.
func Register(r *mux.Router, logger *slog.Logger) {
	h := NewHandler(logger)

	console := r.PathPrefix("/admin").Subrouter()
	console.Use(middleware.Guard(guard.RequireRole(model.RoleEditor)))

	console.HandleFunc("", h.Dashboard).Methods(http.MethodGet)
	console.HandleFunc("/", h.Dashboard).Methods(http.MethodGet)

	console.HandleFunc("/posts", h.Posts).Methods(http.MethodGet)
	console.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	console.HandleFunc("/posts/new", h.NewPost).Methods(http.MethodGet)
	console.HandleFunc("/posts/{id:[0-9]+}/edit", h.EditPost).Methods(http.MethodGet)
	console.HandleFunc("/posts/{id:[0-9]+}", h.UpdatePost).Methods(http.MethodPost)
	console.HandleFunc("/posts/{id:[0-9]+}/delete", h.DeletePost).Methods(http.MethodPost)

	console.HandleFunc("/categories", h.Categories).Methods(http.MethodGet)
	console.HandleFunc("/categories", h.CreateCategory).Methods(http.MethodPost)
	console.HandleFunc("/categories/{id:[0-9]+}/delete", h.DeleteCategory).Methods(http.MethodPost)

	console.HandleFunc("/tags", h.Tags).Methods(http.MethodGet)
	console.HandleFunc("/tags", h.CreateTag).Methods(http.MethodPost)
	console.HandleFunc("/tags/{id:[0-9]+}/delete", h.DeleteTag).Methods(http.MethodPost)

	users := console.PathPrefix("/users").Subrouter()
	users.Use(middleware.Guard(guard.RequireAdmin()))
	users.HandleFunc("", h.Users).Methods(http.MethodGet)
}
