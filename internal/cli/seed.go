package cli

import (
	"errors"
	"fmt"

	"github.com/cleanblog/internal/db"
	"github.com/cleanblog/internal/service"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type samplePost struct {
	title    string
	subtitle string
	imgURL   string
	body     string
}

// 示例文章，仅在数据库中还没有文章时写入
var samplePosts = []samplePost{
	{
		title:    "The Life of Cactus",
		subtitle: "Who knew that cacti lived such interesting lives.",
		imgURL:   "https://images.unsplash.com/photo-1530482054429-cc491f61333b?auto=format&fit=crop&w=1651&q=80",
		body:     "<p>Nori grape silver beet broccoli kombu beet greens fava bean potato quandong celery.</p>\n<p>Bunya nuts black-eyed pea prairie turnip leek lentil turnip greens parsnip.</p>",
	},
	{
		title:    "Top 15 Things to Do When You Are Bored",
		subtitle: "Are you bored? Don't know what to do? Try these top 15 activities.",
		imgURL:   "https://images.unsplash.com/photo-1520116468816-95b69f847357?auto=format&fit=crop&w=1650&q=80",
		body:     "<p>Chase ball of string eat plants, meow, and throw up because I ate plants.</p>\n<p>Going to catch the red dot today going to catch the red dot today.</p>",
	},
	{
		title:    "Introducing Dinner Parties",
		subtitle: "Help your friends with high levels of hunger make new friends.",
		imgURL:   "https://images.unsplash.com/photo-1528747008803-f9f5cc8f1a64?auto=format&fit=crop&w=1650&q=80",
		body:     "<p>Cupcake ipsum dolor sit amet. Halvah dragée sweet cake marzipan.</p>",
	},
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Publish sample posts as the administrator",
		Long: `Publish sample posts as the administrator.

Requires an administrator account (see create-admin) and does nothing when
posts already exist.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, log, err := openStore(cmd, opts)
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			ctx := cmd.Context()
			var admin db.User
			if err := gdb.WithContext(ctx).Where("role = ?", db.RoleAdmin).Order("id asc").First(&admin).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errors.New("no administrator account; run create-admin first")
				}
				return fmt.Errorf("find administrator: %w", err)
			}

			posts := service.NewPostService(gdb, log)
			existing, err := posts.List(ctx)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d posts already exist, skipping\n", len(existing))
				return nil
			}

			for _, sample := range samplePosts {
				if _, err := posts.Create(ctx, &admin, service.PostInput{
					Title:    sample.title,
					Subtitle: sample.subtitle,
					ImgURL:   sample.imgURL,
					Body:     sample.body,
				}); err != nil {
					return fmt.Errorf("seed %q: %w", sample.title, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d posts\n", len(samplePosts))
			return nil
		},
	}
}
