// Copyright 2026 Codespark Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/codespark/inspire"
	"github.com/codespark/inspire/config"
	"github.com/codespark/inspire/core"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "inspire",
		Usage: "Semantic search and ranking over repository metadata",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Embed a JSON repository export and save the index snapshot",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to JSON file of repository records",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "min-stars",
						Usage: "Skip repositories below this star count",
						Value: 10,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Overall deadline for embedding and saving",
						Value: 5 * time.Minute,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Load the index snapshot and rank repositories against a query",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "results",
						Aliases: []string{"k"},
						Usage:   "Number of results to return",
						Value:   5,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Overall deadline for loading and searching",
						Value: 1 * time.Minute,
					},
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.Default(), nil
}

// repoRecord is the GitHub-shaped JSON record accepted by the index command.
// Both "stargazers_count" and its shorter "stars" alias are accepted.
type repoRecord struct {
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Description     string    `json:"description"`
	HTMLURL         string    `json:"html_url"`
	Language        string    `json:"language"`
	StargazersCount *int64    `json:"stargazers_count"`
	Stars           *int64    `json:"stars"`
	CreatedAt       time.Time `json:"created_at"`
	PushedAt        time.Time `json:"pushed_at"`
	Archived        bool      `json:"archived"`
	Disabled        bool      `json:"disabled"`
	HasWiki         bool      `json:"has_wiki"`
	ReadmeContent   string    `json:"readme_content"`
}

func (r *repoRecord) starCount() int64 {
	if r.StargazersCount != nil {
		return *r.StargazersCount
	}
	if r.Stars != nil {
		return *r.Stars
	}
	return 0
}

// meetsQualityGate filters out records that make poor inspiration sources.
// Archived and disabled repositories are excluded regardless of stars.
func meetsQualityGate(record *repoRecord, minStars int64) bool {
	if record.Archived || record.Disabled {
		return false
	}
	return record.starCount() >= minStars
}

func toRepository(record *repoRecord) *core.Repository {
	return &core.Repository{
		Name:          record.Name,
		FullName:      record.FullName,
		Description:   record.Description,
		HTMLURL:       record.HTMLURL,
		Language:      record.Language,
		ReadmeExcerpt: record.ReadmeContent,
		Stars:         record.starCount(),
		CreatedAt:     record.CreatedAt,
		PushedAt:      record.PushedAt,
		HasWiki:       record.HasWiki,
		HasReadme:     record.ReadmeContent != "",
	}
}

// decodeRepositories reads a JSON array of repository records and applies
// the quality gate. It returns the accepted repositories and the number of
// records skipped.
func decodeRepositories(data []byte, minStars int64) ([]*core.Repository, int, error) {
	var records []*repoRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, 0, fmt.Errorf("failed to parse repository export: %w", err)
	}

	repos := make([]*core.Repository, 0, len(records))
	skipped := 0
	for _, record := range records {
		if !meetsQualityGate(record, minStars) {
			skipped++
			continue
		}
		repos = append(repos, toRepository(record))
	}
	return repos, skipped, nil
}

func indexCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(c.String("input"))
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	repos, skipped, err := decodeRepositories(data, int64(c.Int("min-stars")))
	if err != nil {
		return err
	}
	if skipped > 0 {
		slog.Info("quality gate applied", "accepted", len(repos), "skipped", skipped)
	}
	if len(repos) == 0 {
		return fmt.Errorf("no repositories passed the quality gate")
	}

	engine, err := inspire.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to assemble engine: %w", err)
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	if err := engine.AddRepositories(ctx, repos); err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	if err := engine.Save(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	fmt.Printf("Indexed %d repositories\n", engine.Len())
	return nil
}

func searchCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("a query is required")
	}

	engine, err := inspire.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to assemble engine: %w", err)
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	if err := engine.Load(ctx); err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	results, err := engine.Search(ctx, query, c.Int("results"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: %s (%d stars) [final %0.3f, similarity %0.3f, quality %0.3f]\n",
			i+1, hit.Repository.FullName, hit.Repository.Stars, hit.Final, hit.Similarity, hit.Quality)
		if hit.Repository.HasDescription() {
			fmt.Printf("   %s\n", hit.Repository.Description)
		}
	}
	return nil
}
