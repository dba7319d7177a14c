package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/internal/config"
	"github.com/BuzzLyutic/task-tracker/internal/logging"
	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/report"
	"github.com/BuzzLyutic/task-tracker/internal/repo"
	"github.com/BuzzLyutic/task-tracker/internal/service"
	"github.com/BuzzLyutic/task-tracker/internal/store"
	"github.com/BuzzLyutic/task-tracker/internal/view"
)

var v = config.NewViper()

var rootCmd = &cobra.Command{
	Use:           "taskctl",
	Short:         "Personal task tracker",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	_ = godotenv.Load()
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("backend", "file", "storage backend: file, sqlite, postgres, mysql, memory")
	rootCmd.PersistentFlags().String("data-dir", "./data", "data directory for file and sqlite backends")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = v.BindPFlag("STORAGE_BACKEND", rootCmd.PersistentFlags().Lookup("backend"))
	_ = v.BindPFlag("DATA_DIR", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = v.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(doneCmd())
	rootCmd.AddCommand(rmCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(clearCmd())
	rootCmd.AddCommand(exportCmd())
}

func listCmd() *cobra.Command {
	var status, sortBy, query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := model.ParseStatusFilter(status)
			if err != nil {
				return err
			}
			by, err := model.ParseSortOption(sortBy)
			if err != nil {
				return err
			}
			return withService(cmd.Context(), func(ctx context.Context, s *service.TaskService) error {
				tasks, err := s.List(ctx, model.TaskFilter{Status: filter, Sort: by, Query: query})
				if err != nil {
					return err
				}
				return printTasks(tasks)
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "all, pending, in-progress, done")
	cmd.Flags().StringVar(&sortBy, "sort", "date", "date, name, priority")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search title and description")
	return cmd
}

func addCmd() *cobra.Command {
	var title, desc, due, status, priority string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate, err := model.ParseDate(due)
			if err != nil {
				return err
			}
			in := model.TaskInput{
				Title:       title,
				Description: desc,
				DueDate:     dueDate,
				Status:      model.Status(status),
				Priority:    model.Priority(priority),
			}
			return withService(cmd.Context(), func(ctx context.Context, s *service.TaskService) error {
				t, err := s.Create(ctx, in)
				if err != nil {
					return err
				}
				return printTask(t)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&desc, "description", "", "task description")
	cmd.Flags().StringVar(&due, "due", time.Now().AddDate(0, 0, 7).Format(model.DateLayout), "due date YYYY-MM-DD")
	cmd.Flags().StringVar(&status, "status", string(model.StatusPending), "pending, in-progress, done")
	cmd.Flags().StringVar(&priority, "priority", string(model.PriorityMedium), "low, medium, high")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, s *service.TaskService) error {
				t, err := s.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return printTask(t)
			})
		},
	}
}

func updateCmd() *cobra.Command {
	var title, desc, due, status, priority string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("description") {
				patch.Description = &desc
			}
			if flags.Changed("due") {
				d, err := model.ParseDate(due)
				if err != nil {
					return err
				}
				patch.DueDate = &d
			}
			if flags.Changed("status") {
				st := model.Status(status)
				patch.Status = &st
			}
			if flags.Changed("priority") {
				p := model.Priority(priority)
				patch.Priority = &p
			}
			return withService(cmd.Context(), func(ctx context.Context, s *service.TaskService) error {
				t, err := s.Update(ctx, args[0], patch)
				if err != nil {
					return err
				}
				return printTask(t)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&desc, "description", "", "task description")
	cmd.Flags().StringVar(&due, "due", "", "due date YYYY-MM-DD")
	cmd.Flags().StringVar(&status, "status", "", "pending, in-progress, done")
	cmd.Flags().StringVar(&priority, "priority", "", "low, medium, high")
	return cmd
}

func doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, s *service.TaskService) error {
				t, err := s.SetStatus(ctx, args[0], model.StatusDone)
				if err != nil {
					return err
				}
				return printTask(t)
			})
		},
	}
}

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, s *service.TaskService) error {
				return s.Delete(ctx, args[0])
			})
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, s *service.TaskService) error {
				st, err := s.GetStats(ctx)
				if err != nil {
					return err
				}
				return printStats(st)
			})
		},
	}
}

func clearCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("refusing to clear without --force")
			}
			return withService(cmd.Context(), func(ctx context.Context, s *service.TaskService) error {
				return s.Clear(ctx)
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "confirm clearing all tasks")
	return cmd
}

func exportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a task report",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			var opts []report.Option
			if font := config.FromViper(v).ReportFont; font != "" {
				opts = append(opts, report.WithFont(font))
			}
			return withService(cmd.Context(), func(ctx context.Context, s *service.TaskService) error {
				rep, err := s.Report(ctx)
				if err != nil {
					return err
				}
				if out == "" || out == "-" {
					return report.Export(os.Stdout, rep, f, opts...)
				}
				file, err := os.Create(out)
				if err != nil {
					return err
				}
				if err := report.Export(file, rep, f, opts...); err != nil {
					file.Close()
					return err
				}
				return file.Close()
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "json, yaml, csv, pdf, xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout if empty)")
	return cmd
}

func withService(ctx context.Context, fn func(context.Context, *service.TaskService) error) error {
	cfg := config.FromViper(v)
	logger, err := logging.New(cfg.LogLevel, true)
	if err != nil {
		return err
	}
	defer logger.Sync()

	backend, err := repo.Open(ctx, repo.Options{
		Backend:     cfg.StorageBackend,
		DataDir:     cfg.DataDir,
		DatabaseURL: cfg.DatabaseURL,
		MySQLDSN:    cfg.MySQLDSN,
	})
	if err != nil {
		return err
	}
	defer backend.Close()

	s := store.New(backend, store.WithLogger(logger.Named("store")))
	logger.Debug("storage opened", zap.String("backend", cfg.StorageBackend))
	return fn(ctx, service.NewTaskService(s))
}

func printTasks(tasks []model.Task) error {
	if v.GetBool("json") {
		return printJSON(tasks)
	}
	now := time.Now()
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Title", "Due", "Status", "Priority", ""})
	for _, t := range tasks {
		flag := ""
		if view.IsOverdue(t, now) {
			flag = "overdue"
		}
		tw.AppendRow(table.Row{t.ID, t.Title, t.DueDate.String(), t.Status, t.Priority, flag})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d tasks", len(tasks))})
	tw.Render()
	return nil
}

func printTask(t model.Task) error {
	if v.GetBool("json") {
		return printJSON(t)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendRows([]table.Row{
		{"ID", t.ID},
		{"Title", t.Title},
		{"Description", t.Description},
		{"Due", t.DueDate.String()},
		{"Status", t.Status},
		{"Priority", t.Priority},
		{"Created", t.CreatedAt.Local().Format(time.DateTime)},
	})
	if t.UpdatedAt != nil {
		tw.AppendRow(table.Row{"Updated", t.UpdatedAt.Local().Format(time.DateTime)})
	}
	tw.Render()
	return nil
}

func printStats(s view.Stats) error {
	if v.GetBool("json") {
		return printJSON(s)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendRows([]table.Row{
		{"Total", s.Total},
		{"Pending", s.Pending},
		{"In progress", s.InProgress},
		{"Done", s.Done},
		{"High priority", s.HighPriority},
		{"Medium priority", s.MediumPriority},
		{"Low priority", s.LowPriority},
		{"Completion rate", fmt.Sprintf("%.1f%%", s.CompletionRate)},
		{"Overdue", s.OverdueCount},
	})
	tw.Render()
	return nil
}

func printJSON(data any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
