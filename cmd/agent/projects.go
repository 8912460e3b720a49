package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/qcut/timeline-agent/internal/config"
	"github.com/qcut/timeline-agent/internal/db"
	"github.com/qcut/timeline-agent/internal/logging"
	"github.com/qcut/timeline-agent/internal/project"
	"github.com/qcut/timeline-agent/internal/selection"
	"github.com/qcut/timeline-agent/internal/timeline"
)

// openService opens the agent database read-side for CLI commands. The
// caller must invoke the returned cleanup function.
func openService() (*project.Service, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger("error")
	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := project.NewRepository(database.Conn())
	svc := project.NewService(repo, selection.NewTracker(), logger)
	return svc, func() { database.Close() }, nil
}

func newProjectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects in the local database",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService()
			if err != nil {
				return err
			}
			defer cleanup()

			projects, err := svc.ListProjects(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}
			if len(projects) == 0 {
				fmt.Println("no projects")
				return nil
			}

			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				rows = append(rows, []string{
					p.ID,
					p.Name,
					p.UpdatedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Println(renderTable(os.Stdout,
				[]string{"ID", "Name", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project's timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := context.Background()
			p, err := svc.GetProject(ctx, args[0])
			if err != nil {
				return err
			}
			tl, err := svc.GetTimeline(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Project:  %s (%s)\n", p.Name, p.ID)
			fmt.Printf("Canvas:   %dx%d @ %.4g fps\n", tl.Width, tl.Height, tl.FPS)
			fmt.Printf("Duration: %.3fs\n", tl.Duration())
			fmt.Println()

			rows := make([][]string, 0)
			for _, track := range tl.Tracks {
				for _, el := range track.Elements {
					rows = append(rows, []string{
						track.ID,
						string(track.Kind),
						elementLabel(el),
						fmt.Sprintf("%.3f", el.StartTime),
						fmt.Sprintf("%.3f", el.EndTime),
						fmt.Sprintf("%.3f", el.Duration()),
					})
				}
			}
			if len(rows) == 0 {
				fmt.Println("timeline is empty")
				return nil
			}
			fmt.Println(renderTable(os.Stdout,
				[]string{"Track", "Kind", "Element", "Start", "End", "Duration"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
}

func elementLabel(el timeline.Element) string {
	if el.Name != "" {
		return el.Name
	}
	return el.ID
}
