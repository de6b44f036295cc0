package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/wanreader/internal/app"
	"github.com/Adda-Baaj/wanreader/internal/logger"
	"github.com/Adda-Baaj/wanreader/pkg/wanandroid"
)

func newPublishersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "publishers",
		Short: "List WeChat official accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := opts.client.ListPublishers(cmd.Context())
			return printEnvelope(cmd.OutOrStdout(), env, err)
		},
	}
}

func newPublisherArticlesCmd(opts *rootOptions) *cobra.Command {
	var (
		page   int
		search string
	)
	cmd := &cobra.Command{
		Use:   "publisher-articles PUBLISHER_ID",
		Short: "List one page of a publisher's articles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var k *string
			if cmd.Flags().Changed("search") {
				k = &search
			}
			env, err := opts.client.ListPublisherArticles(cmd.Context(), args[0], page, k)
			return printEnvelope(cmd.OutOrStdout(), env, err)
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number (publisher pages start at 1)")
	cmd.Flags().StringVarP(&search, "search", "k", "", "Search within the publisher's history")
	return cmd
}

func newArticlesCmd(opts *rootOptions) *cobra.Command {
	var (
		page     int
		category int
		author   string
	)
	cmd := &cobra.Command{
		Use:   "articles",
		Short: "List one page of the home feed, a category or an author",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("author") {
				if cmd.Flags().Changed("cid") {
					return fmt.Errorf("--author and --cid are mutually exclusive")
				}
				env, err := opts.client.ListArticlesByAuthor(cmd.Context(), page, author)
				return printEnvelope(cmd.OutOrStdout(), env, err)
			}

			var cid *int
			if cmd.Flags().Changed("cid") {
				cid = &category
			}
			env, err := opts.client.ListArticles(cmd.Context(), page, cid)
			return printEnvelope(cmd.OutOrStdout(), env, err)
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 0, "Page number (starts at 0)")
	cmd.Flags().IntVar(&category, "cid", 0, "Category id from the tree")
	cmd.Flags().StringVar(&author, "author", "", "Only articles by this author")
	return cmd
}

func newTopCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "top",
		Short: "List pinned articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := opts.client.ListTopArticles(cmd.Context())
			return printEnvelope(cmd.OutOrStdout(), env, err)
		},
	}
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "search KEYWORD...",
		Short: "Full-text article search",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.client.SearchArticles(cmd.Context(), page, strings.Join(args, " "))
			return printEnvelope(cmd.OutOrStdout(), env, err)
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 0, "Page number (starts at 0)")
	return cmd
}

func newBannersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "banners",
		Short: "List carousel banners",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := opts.client.ListBanners(cmd.Context())
			return printEnvelope(cmd.OutOrStdout(), env, err)
		},
	}
}

func newHotkeysCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hotkeys",
		Short: "List popular search keywords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := opts.client.ListPopularKeywords(cmd.Context())
			return printEnvelope(cmd.OutOrStdout(), env, err)
		},
	}
}

func newTreeCmd(opts *rootOptions) *cobra.Command {
	var outline bool
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the knowledge-system category tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := opts.client.ListCategoryTree(cmd.Context())
			if !outline || err != nil {
				return printEnvelope(cmd.OutOrStdout(), env, err)
			}
			if err := env.Err(); err != nil {
				return err
			}
			return printOutline(cmd.OutOrStdout(), env.Data)
		},
	}
	cmd.Flags().BoolVar(&outline, "outline", false, "Print an indented id/name outline instead of JSON")
	return cmd
}

func printOutline(w io.Writer, roots []wanandroid.Category) error {
	var werr error
	for _, root := range roots {
		root.Walk(func(depth int, node wanandroid.Category) bool {
			_, werr = fmt.Fprintf(w, "%s%d\t%s\n", strings.Repeat("  ", depth), node.ID, node.Name)
			return werr == nil
		})
		if werr != nil {
			return werr
		}
	}
	return nil
}

func newHarvestCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "harvest",
		Short: "Run a single harvester pass over the configured providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logger.Init(opts.cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			h, err := app.NewHarvester(ctx, opts.cfg, log)
			if err != nil {
				return err
			}
			defer h.Close()
			return h.RunOnce(ctx)
		},
	}
}
