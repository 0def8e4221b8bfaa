package fakeapi

import (
	"net/http"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/blogfront/internal/model"
)

// Seed loads a small fixed set of categories, tags and posts
func (s *Server) Seed() {
	author := model.Identity{ID: 999, Username: "editor", DisplayName: "The Editor"}
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	goCat := s.AddCategory("Go", "Posts about Go")
	webCat := s.AddCategory("Web", "Posts about the web")
	testTag := s.AddTag("testing")
	httpTag := s.AddTag("http")

	s.AddPost(model.Post{Title: "Hello Go", Content: "First post body.", Excerpt: "An introduction.", Published: true,
		Category: goCat, Tags: []model.Tag{testTag}, Author: author, CreatedAt: base})
	s.AddPost(model.Post{Title: "Table Tests", Content: "Write them.", Excerpt: "Testing patterns.", Published: true,
		Category: goCat, Tags: []model.Tag{testTag}, Author: author, CreatedAt: base.Add(24 * time.Hour)})
	s.AddPost(model.Post{Title: "Cookies", Content: "SameSite and friends.", Excerpt: "HTTP state.", Published: true,
		Category: webCat, Tags: []model.Tag{httpTag}, Author: author, CreatedAt: base.Add(48 * time.Hour)})
	s.AddPost(model.Post{Title: "Unfinished Draft", Content: "Not yet.", Published: false,
		Category: webCat, Author: author, CreatedAt: base.Add(72 * time.Hour)})
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// AddCategory stores a category
func (s *Server) AddCategory(name, description string) model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := model.Category{ID: s.nextID, Name: name, Slug: slugify(name), Description: description}
	s.nextID++
	s.categories = append(s.categories, c)
	return c
}

// AddTag stores a tag
func (s *Server) AddTag(name string) model.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := model.Tag{ID: s.nextID, Name: name, Slug: slugify(name)}
	s.nextID++
	s.tags = append(s.tags, t)
	return t
}

// AddPost stores a post, filling in ID and slug
func (s *Server) AddPost(p model.Post) model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	if p.Slug == "" {
		p.Slug = slugify(p.Title)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = p.CreatedAt
	p.CategoryID = p.Category.ID
	s.posts = append(s.posts, p)
	return p
}

// Posts returns the stored posts
func (s *Server) Posts() []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.posts)
}

// Comments returns the stored comments
func (s *Server) Comments() []model.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.comments)
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// canSeeDrafts reports whether the caller may list unpublished posts
func (s *Server) canSeeDrafts(r *http.Request) bool {
	id, ok := s.authenticate(r)
	return ok && id.Role().AtLeast(model.RoleEditor)
}

func matchesPost(p model.Post, category, tag, search string) bool {
	if category != "" && p.Category.Slug != category {
		return false
	}
	if tag != "" && !slices.ContainsFunc(p.Tags, func(t model.Tag) bool { return t.Slug == tag }) {
		return false
	}
	if search != "" {
		q := strings.ToLower(search)
		if !strings.Contains(strings.ToLower(p.Title), q) && !strings.Contains(strings.ToLower(p.Content), q) {
			return false
		}
	}
	return true
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	drafts := s.canSeeDrafts(r)

	s.mu.Lock()
	var matched []model.Post
	for i := len(s.posts) - 1; i >= 0; i-- {
		p := s.posts[i]
		if !p.Published && !drafts {
			continue
		}
		if matchesPost(p, q.Get("category"), q.Get("tag"), q.Get("search")) {
			matched = append(matched, p)
		}
	}
	s.mu.Unlock()

	total := len(matched)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	writeJSON(w, http.StatusOK, map[string]any{
		"data": append([]model.Post{}, matched[start:end]...),
		"pagination": model.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: max(1, (total+limit-1)/limit),
		},
	})
}

func (s *Server) findPost(match func(model.Post) bool) (model.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if match(p) {
			return p, true
		}
	}
	return model.Post{}, false
}

func (s *Server) handlePostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	p, ok := s.findPost(func(p model.Post) bool { return p.Slug == slug })
	if !ok || (!p.Published && !s.canSeeDrafts(r)) {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	writeData(w, http.StatusOK, p)
}

func (s *Server) handlePostByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	p, ok := s.findPost(func(p model.Post) bool { return p.ID == id })
	if !ok || (!p.Published && !s.canSeeDrafts(r)) {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	writeData(w, http.StatusOK, p)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	postID := pathID(r)
	s.mu.Lock()
	out := []model.Comment{}
	for _, c := range s.comments {
		if c.PostID == postID && c.Approved {
			out = append(out, c)
		}
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var in model.NewComment
	if !decodeBody(r, &in) || in.Author == "" || in.Email == "" || in.Content == "" {
		writeError(w, http.StatusBadRequest, "Author, email and content are required")
		return
	}
	if _, ok := s.findPost(func(p model.Post) bool { return p.ID == in.PostID }); !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	s.mu.Lock()
	c := model.Comment{
		ID:        s.nextID,
		PostID:    in.PostID,
		Author:    in.Author,
		Email:     in.Email,
		Content:   in.Content,
		Approved:  true,
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.comments = append(s.comments, c)
	s.mu.Unlock()

	writeData(w, http.StatusCreated, c)
}

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := make([]model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		for _, p := range s.posts {
			if p.Category.ID == c.ID && p.Published {
				c.PostCount++
			}
		}
		out = append(out, c)
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleCategoryByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.ID == id {
			writeData(w, http.StatusOK, c)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Category not found")
}

func (s *Server) handleListTags(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := append([]model.Tag{}, s.tags...)
	s.mu.Unlock()
	writeData(w, http.StatusOK, out)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "Search query is required")
		return
	}
	s.mu.Lock()
	out := []model.Post{}
	for _, p := range s.posts {
		if p.Published && matchesPost(p, "", "", q) {
			out = append(out, p)
		}
	}
	s.mu.Unlock()
	writeData(w, http.StatusOK, out)
}
