package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wadjakorntonsri/linkfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkfolio/pkg/core/services"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write every profile with its links to stdout as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			profiles, err := repo.Dump(cmd.Context())
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(profiles)
		},
	}
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load profiles from an export file, skipping emails that already exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer f.Close()

			var profiles []domain.Profile
			if err := json.NewDecoder(f).Decode(&profiles); err != nil {
				return fmt.Errorf("decode failed: %w", err)
			}

			repo, err := opts.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			ctx := cmd.Context()
			out := cmd.ErrOrStderr()
			count := 0
			for _, p := range profiles {
				existing, err := repo.GetByEmail(ctx, p.Email)
				if err != nil {
					return err
				}
				if existing != nil {
					fmt.Fprintf(out, "Skipping existing email: %s\n", p.Email)
					continue
				}

				links := p.Links
				p.ID = 0
				p.Links = nil
				if p.CreatedAt.IsZero() {
					p.CreatedAt = time.Now()
				}
				if p.UpdatedAt.IsZero() {
					p.UpdatedAt = p.CreatedAt
				}
				if err := repo.Create(ctx, &p); err != nil {
					fmt.Fprintf(out, "Failed to import %s: %v\n", p.Email, err)
					continue
				}

				changes := make([]domain.LinkChange, 0, len(links))
				for _, l := range links {
					position := l.Position
					changes = append(changes, domain.LinkChange{Label: l.Label, URL: l.URL, Position: &position})
				}
				if err := repo.ApplyLinkChanges(ctx, p.ID, changes); err != nil {
					fmt.Fprintf(out, "Failed to import links for %s: %v\n", p.Email, err)
				}
				count++
			}

			fmt.Fprintf(out, "Imported %d profiles\n", count)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newCheckUsernameCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check-username <username>",
		Short: "Report whether a username could be claimed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			status, err := services.NewUsernameChecker(repo, nil).Check(cmd.Context(), args[0], 0)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", status.Tone, status.Text)
			return nil
		},
	}
}

func newPublishPostCommand(opts *rootOptions) *cobra.Command {
	var username, title, slug, excerpt string
	var draft bool

	cmd := &cobra.Command{
		Use:   "publish-post",
		Short: "Add a post to a profile so its public page has something to count views on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			ctx := cmd.Context()
			profile, err := repo.GetByUsername(ctx, username)
			if err != nil {
				return err
			}
			if profile == nil {
				return fmt.Errorf("no profile with username %q", username)
			}

			now := time.Now().UTC()
			post := &domain.Post{
				ProfileID:   profile.ID,
				Title:       title,
				Slug:        slug,
				Excerpt:     excerpt,
				Status:      domain.PostStatusPublished,
				PublishedAt: &now,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if draft {
				post.Status = domain.PostStatusDraft
				post.PublishedAt = nil
			}
			if post.Slug == "" {
				post.Slug = slugify(title)
			}

			if err := repo.CreatePost(ctx, post); err != nil {
				return fmt.Errorf("creating post: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s post %d: /u/%s/posts/%d\n", post.Status, post.ID, *profile.Username, post.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "owner of the post")
	cmd.Flags().StringVar(&title, "title", "", "post title")
	cmd.Flags().StringVar(&slug, "slug", "", "URL slug (derived from the title when empty)")
	cmd.Flags().StringVar(&excerpt, "excerpt", "", "short summary")
	cmd.Flags().BoolVar(&draft, "draft", false, "store as a draft that the public page will not serve")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
