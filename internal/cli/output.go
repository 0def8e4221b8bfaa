package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mcoot/blogfront/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintf(o.w, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case model.Identity:
		o.printIdentity(v)
	case PostList:
		o.printPostList(v)
	case []model.Post:
		o.printPosts(v)
	case PostDetail:
		o.printPostDetail(v)
	case []model.Category:
		o.printCategories(v)
	case []model.Tag:
		o.printTags(v)
	case model.Comment:
		fmt.Fprintf(o.w, "Comment %d posted by %s\n", v.ID, v.Author)
	case model.DashboardStats:
		o.printStats(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// PostList is one page of posts
type PostList struct {
	Posts      []model.Post     `json:"posts"`
	Pagination model.Pagination `json:"pagination"`
}

// PostDetail is a post with its comments
type PostDetail struct {
	Post     model.Post      `json:"post"`
	Comments []model.Comment `json:"comments"`
}

func (o *Output) printIdentity(id model.Identity) {
	fmt.Fprintf(o.w, "User: %s (%d)\n", id.Name(), id.ID)
	fmt.Fprintf(o.w, "Email: %s\n", id.Email)
	fmt.Fprintf(o.w, "Role: %s\n", id.Role())
}

func (o *Output) printPosts(posts []model.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(o.w, "No posts.")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLUG\tTITLE\tCATEGORY\tSTATUS")
	for _, p := range posts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Slug, p.Title, p.Category.Name, p.Status())
	}
	_ = tw.Flush()
}

func (o *Output) printPostList(l PostList) {
	o.printPosts(l.Posts)
	if l.Pagination.TotalPages > 1 {
		fmt.Fprintf(o.w, "Page %d of %d (%d posts)\n", l.Pagination.Page, l.Pagination.TotalPages, l.Pagination.Total)
	}
}

func (o *Output) printPostDetail(d PostDetail) {
	p := d.Post
	fmt.Fprintf(o.w, "%s\n%s\n", p.Title, strings.Repeat("=", len(p.Title)))
	if p.Author.Name() != "" {
		fmt.Fprintf(o.w, "By %s", p.Author.Name())
		if !p.CreatedAt.IsZero() {
			fmt.Fprintf(o.w, " on %s", p.CreatedAt.Format("2 Jan 2006"))
		}
		fmt.Fprintln(o.w)
	}
	if p.Category.Name != "" {
		fmt.Fprintf(o.w, "Category: %s\n", p.Category.Name)
	}
	if len(p.Tags) > 0 {
		names := make([]string, len(p.Tags))
		for i, t := range p.Tags {
			names[i] = t.Name
		}
		fmt.Fprintf(o.w, "Tags: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(o.w, "\n%s\n", p.Content)

	fmt.Fprintf(o.w, "\nComments (%d):\n", len(d.Comments))
	for _, c := range d.Comments {
		fmt.Fprintf(o.w, "  - %s: %s\n", c.Author, c.Content)
	}
}

func (o *Output) printCategories(categories []model.Category) {
	if len(categories) == 0 {
		fmt.Fprintln(o.w, "No categories.")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tNAME\tPOSTS")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", c.Slug, c.Name, c.PostCount)
	}
	_ = tw.Flush()
}

func (o *Output) printTags(tags []model.Tag) {
	if len(tags) == 0 {
		fmt.Fprintln(o.w, "No tags.")
		return
	}
	for _, t := range tags {
		fmt.Fprintf(o.w, "#%s\n", t.Slug)
	}
}

func (o *Output) printStats(s model.DashboardStats) {
	fmt.Fprintf(o.w, "Posts: %d (%d published, %d drafts)\n", s.Posts, s.Published, s.Drafts)
	fmt.Fprintf(o.w, "Comments: %d\n", s.Comments)
	fmt.Fprintf(o.w, "Categories: %d\n", s.Categories)
	fmt.Fprintf(o.w, "Tags: %d\n", s.Tags)
	fmt.Fprintf(o.w, "Users: %d\n", s.Users)
	if len(s.RecentPosts) > 0 {
		fmt.Fprintln(o.w, "\nRecent posts:")
		for _, p := range s.RecentPosts {
			fmt.Fprintf(o.w, "  - %s [%s]\n", p.Title, p.Status())
		}
	}
}
