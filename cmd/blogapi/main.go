// Package main provides the blogapi binary entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/blogapi"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "blogapi",
		Short:        "Blog content API server",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), seedCmd(), versionCmd())
	return root
}

func configFromEnv() blogapi.Config {
	return blogapi.Config{
		Name:           blogapi.EnvOr("SITE_NAME", "Blog"),
		URL:            blogapi.EnvOr("SITE_URL", "http://localhost:8000"),
		Description:    blogapi.EnvOr("SITE_DESCRIPTION", ""),
		Author:         blogapi.EnvOr("SITE_AUTHOR", ""),
		Addr:           blogapi.EnvOr("ADDR", ":8000"),
		DatabasePath:   blogapi.EnvOr("DATABASE_PATH", "data/blog.db"),
		MetricsEnabled: blogapi.EnvBool("METRICS_ENABLED", true),
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := blogapi.New(configFromEnv())
			defer app.Close()
			return app.Start()
		},
	}
}

func seedCmd() *cobra.Command {
	var total int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the store with deterministic sample posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if total < 1 {
				return fmt.Errorf("total must be >= 1, got %d", total)
			}
			store, err := blogapi.NewStore(configFromEnv().DatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			res, err := store.Seed(ctx, total, time.Now().UTC())
			if err != nil {
				return err
			}
			if res.Existing >= total {
				fmt.Printf("store already has %d posts\n", res.Existing)
				return nil
			}
			fmt.Printf("inserted %d posts (%d total)\n", res.Inserted, res.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&total, "total", defaultSeedTotal(), "target number of posts")
	return cmd
}

func defaultSeedTotal() int {
	if v := os.Getenv("SEED_TOTAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return blogapi.DefaultSeedTotal
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the blogapi version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("blogapi %s\n", version)
		},
	}
}
