package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo"
	"github.com/jrazmi/taskdeck/core/synccache"
	"github.com/jrazmi/taskdeck/sdk/logger"
	"github.com/jrazmi/taskdeck/sdk/taskclient"
	"github.com/jrazmi/taskdeck/sdk/validation"
)

const appName = "TASKCTL"

func main() {
	godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	client, err := taskclient.NewClientFromEnv(appName)
	if err != nil {
		fmt.Printf("Error configuring client: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	switch command := os.Args[1]; command {
	case "list", "ls":
		runList(ctx, client)
	case "add":
		runAdd(ctx, client, os.Args[2:])
	case "done":
		runDone(ctx, client, os.Args[2:])
	case "rm", "delete":
		runRemove(ctx, client, os.Args[2:])
	case "watch":
		runWatch(client, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: taskctl <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list             List all tasks")
	fmt.Println("  add              Create a task (-title, -desc, -status)")
	fmt.Println("  done <id>        Mark a task done")
	fmt.Println("  rm <id>          Delete a task")
	fmt.Println("  watch            Follow the task list, refreshing periodically")
	fmt.Println()
	fmt.Println("The server address comes from TASKCTL_CLIENT_BASE_URL (default http://localhost:3001).")
}

func runList(ctx context.Context, client *taskclient.Client) {
	tasks, err := client.List(ctx)
	if err != nil {
		fail(err)
	}
	printTasks(tasks)
}

func runAdd(ctx context.Context, client *taskclient.Client, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "Task title (required)")
	desc := fs.String("desc", "", "Task description (required)")
	status := fs.String("status", "", "Initial status: pending or done (default pending)")
	fs.Parse(args)

	ct := tasksrepo.CreateTask{
		Title:       *title,
		Description: *desc,
	}
	if *status != "" {
		parsed, err := tasksrepo.ParseStatus(*status)
		if err != nil {
			fail(err)
		}
		ct.Status = validation.Ptr(parsed)
	}

	task, err := client.Create(ctx, ct)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Created task %s: %s\n", task.ID, task.Title)
}

func runDone(ctx context.Context, client *taskclient.Client, args []string) {
	if len(args) < 1 {
		fmt.Println("Error: task id is required")
		os.Exit(1)
	}

	task, err := client.UpdateStatus(ctx, args[0], tasksrepo.StatusDone)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Task %s marked %s\n", task.ID, task.Status)
}

func runRemove(ctx context.Context, client *taskclient.Client, args []string) {
	if len(args) < 1 {
		fmt.Println("Error: task id is required")
		os.Exit(1)
	}

	if err := client.Delete(ctx, args[0]); err != nil {
		fail(err)
	}
	fmt.Printf("Task %s deleted\n", args[0])
}

func runWatch(client *taskclient.Client, args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	interval := fs.Duration("interval", 30*time.Second, "Refresh interval")
	fs.Parse(args)

	log, err := logger.NewFromEnv(appName, logger.WithOutput(os.Stderr))
	if err != nil {
		fail(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := synccache.NewCache(log, client)
	if err := cache.Refresh(ctx); err != nil {
		fail(err)
	}
	printTasks(cache.Tasks())

	stop := cache.Watch(ctx, *interval)
	defer stop()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-shutdown:
			fmt.Println()
			return
		case <-ticker.C:
			if msg := cache.Err(); msg != "" {
				fmt.Printf("Error: %s\n", msg)
				cache.ClearError()
			}
			printTasks(cache.Tasks())
		}
	}
}

func printTasks(tasks []tasksrepo.Task) {
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return
	}

	fmt.Printf("%-8s %-8s %-30s %s\n", "ID", "STATUS", "TITLE", "DESCRIPTION")
	for _, task := range tasks {
		fmt.Printf("%-8s %-8s %-30s %s\n", task.ID, task.Status, task.Title, task.Description)
	}
}

func fail(err error) {
	fmt.Printf("Error: %v\n", err)
	os.Exit(1)
}
