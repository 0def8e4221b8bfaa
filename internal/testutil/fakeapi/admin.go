package fakeapi

import (
	"net/http"
	"slices"
	"time"

	"github.com/mcoot/blogfront/internal/model"
)

func (s *Server) postFromInput(p model.Post, in model.PostInput) model.Post {
	p.Title = in.Title
	p.Content = in.Content
	p.Excerpt = in.Excerpt
	p.ImageURL = in.ImageURL
	p.Published = in.Published
	p.Slug = in.Slug
	if p.Slug == "" {
		p.Slug = slugify(in.Title)
	}
	p.CategoryID = in.CategoryID
	p.Category = model.Category{}
	for _, c := range s.categories {
		if c.ID == in.CategoryID {
			p.Category = c
		}
	}
	p.Tags = nil
	for _, t := range s.tags {
		if slices.Contains(in.TagIDs, t.ID) {
			p.Tags = append(p.Tags, t)
		}
	}
	p.UpdatedAt = time.Now()
	return p
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var in model.PostInput
	if !decodeBody(r, &in) || in.Title == "" || in.Content == "" {
		writeError(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	s.mu.Lock()
	p := s.postFromInput(model.Post{ID: s.nextID, Author: caller(r), CreatedAt: time.Now()}, in)
	s.nextID++
	s.posts = append(s.posts, p)
	s.mu.Unlock()

	writeData(w, http.StatusCreated, p)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var in model.PostInput
	if !decodeBody(r, &in) || in.Title == "" || in.Content == "" {
		writeError(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.posts {
		if p.ID == id {
			s.posts[i] = s.postFromInput(p, in)
			writeData(w, http.StatusOK, s.posts[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "Post not found")
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.posts {
		if p.ID == id {
			s.posts = slices.Delete(s.posts, i, i+1)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Post not found")
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in model.CategoryInput
	if !decodeBody(r, &in) || in.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	c := s.AddCategory(in.Name, in.Description)
	writeData(w, http.StatusCreated, c)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.categories {
		if c.ID == id {
			s.categories = slices.Delete(s.categories, i, i+1)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Category not found")
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var in model.TagInput
	if !decodeBody(r, &in) || in.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	t := s.AddTag(in.Name)
	writeData(w, http.StatusCreated, t)
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tags {
		if t.ID == id {
			s.tags = slices.Delete(s.tags, i, i+1)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Tag deleted"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Tag not found")
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := model.DashboardStats{
		Posts:      len(s.posts),
		Comments:   len(s.comments),
		Users:      len(s.accounts),
		Categories: len(s.categories),
		Tags:       len(s.tags),
	}
	for _, p := range s.posts {
		if p.Published {
			stats.Published++
		} else {
			stats.Drafts++
		}
	}
	for i := len(s.posts) - 1; i >= 0 && len(stats.RecentPosts) < 5; i-- {
		stats.RecentPosts = append(stats.RecentPosts, s.posts[i])
	}
	writeData(w, http.StatusOK, stats)
}

func (s *Server) handleListUsers(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := make([]model.Identity, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, acc.identity)
	}
	s.mu.Unlock()
	slices.SortFunc(out, func(a, b model.Identity) int { return int(a.ID - b.ID) })
	writeData(w, http.StatusOK, out)
}
