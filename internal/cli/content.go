package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/session"
)

var errSessionExpired = errors.New("your session has expired; please log in again")

// resolve initializes the session so a rejected credential is noticed and dropped
func resolve(cmd *cobra.Command, deps *commandDeps) *Session {
	sess := deps.session()
	sess.Manager.Initialize(cmd.Context())
	return sess
}

// backendError reports err, or the forced sign-out it caused
func backendError(sess *Session, err error) error {
	if sess.Destination() != "" && !session.IsAuthenticated(sess.Manager.State()) {
		return fmt.Errorf("%w: %w", errSessionExpired, err)
	}
	return err
}

func newPostsCmd(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Read posts",
	}

	cmd.AddCommand(newPostsListCmd(deps))
	cmd.AddCommand(newPostsShowCmd(deps))

	return cmd
}

func newPostsListCmd(deps *commandDeps) *cobra.Command {
	var q model.PostQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := resolve(cmd, deps)
			page, err := sess.Client.ListPosts(cmd.Context(), q)
			if err != nil {
				return backendError(sess, err)
			}
			deps.output(cmd.OutOrStdout()).Print(PostList{Posts: page.Posts, Pagination: page.Pagination})
			return nil
		},
	}

	cmd.Flags().IntVar(&q.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&q.Limit, "limit", 10, "Posts per page")
	cmd.Flags().StringVar(&q.Category, "category", "", "Only posts in this category slug")
	cmd.Flags().StringVar(&q.Tag, "tag", "", "Only posts with this tag slug")

	return cmd
}

func newPostsShowCmd(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Show a post and its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := resolve(cmd, deps)
			post, err := sess.Client.GetPostBySlug(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, model.ErrNotFound) {
					return fmt.Errorf("no post with slug %q", args[0])
				}
				return backendError(sess, err)
			}
			comments, err := sess.Client.ListComments(cmd.Context(), post.ID)
			if err != nil {
				return backendError(sess, err)
			}
			deps.output(cmd.OutOrStdout()).Print(PostDetail{Post: post, Comments: comments})
			return nil
		},
	}
}

func newCategoriesCmd(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := resolve(cmd, deps)
			categories, err := sess.Client.ListCategories(cmd.Context())
			if err != nil {
				return backendError(sess, err)
			}
			deps.output(cmd.OutOrStdout()).Print(categories)
			return nil
		},
	}
}

func newTagsCmd(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := resolve(cmd, deps)
			tags, err := sess.Client.ListTags(cmd.Context())
			if err != nil {
				return backendError(sess, err)
			}
			deps.output(cmd.OutOrStdout()).Print(tags)
			return nil
		},
	}
}

func newSearchCmd(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search post titles and content",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := resolve(cmd, deps)
			results, err := sess.Client.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return backendError(sess, err)
			}
			deps.output(cmd.OutOrStdout()).Print(results)
			return nil
		},
	}
}

func newCommentCmd(deps *commandDeps) *cobra.Command {
	var in model.NewComment

	cmd := &cobra.Command{
		Use:   "comment <slug>",
		Short: "Comment on a post",
		Long:  "Comment on a post. Author and email default to the signed-in account.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := resolve(cmd, deps)
			if user, ok := sess.Manager.State().Identity(); ok {
				if in.Author == "" {
					in.Author = user.Name()
				}
				if in.Email == "" {
					in.Email = user.Email
				}
			}
			if in.Author == "" || in.Email == "" {
				return fmt.Errorf("--author and --email are required when not logged in")
			}

			post, err := sess.Client.GetPostBySlug(cmd.Context(), args[0])
			if err != nil {
				return backendError(sess, err)
			}
			in.PostID = post.ID
			comment, err := sess.Client.CreateComment(cmd.Context(), in)
			if err != nil {
				return backendError(sess, err)
			}
			deps.output(cmd.OutOrStdout()).Print(comment)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Content, "content", "", "Comment text (required)")
	cmd.Flags().StringVar(&in.Author, "author", "", "Name to show")
	cmd.Flags().StringVar(&in.Email, "email", "", "Contact email")
	_ = cmd.MarkFlagRequired("content")

	return cmd
}
