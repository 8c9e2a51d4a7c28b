// Task commands.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jotterhq/jotter/internal/service"
	"github.com/jotterhq/jotter/pkg/types"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var (
	taskTitle       string
	taskDescription string
	taskSort        string
)

var taskAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Create a task",
	Example: `  jotter task add --title "Write report" --description "quarterly numbers"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, svc, err := openServices()
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := currentUser(svc)
		if err != nil {
			return err
		}
		task, err := svc.Tasks.Create(user.ID, taskTitle, taskDescription)
		if err != nil {
			return err
		}
		return printResult(task, fmt.Sprintf("created task %s", task.ID))
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, svc, err := openServices()
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := currentUser(svc)
		if err != nil {
			return err
		}
		tasks, err := svc.Tasks.List(user.ID, taskSort)
		if err != nil {
			return err
		}
		lines := make([]string, len(tasks))
		for i, t := range tasks {
			lines[i] = fmt.Sprintf("%s  %-8s %s", t.ID, t.Status, t.Title)
		}
		return printResult(tasks, lines...)
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show one task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, svc, err := openServices()
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := currentUser(svc)
		if err != nil {
			return err
		}
		task, err := svc.Tasks.Get(user.ID, args[0])
		if err != nil {
			return err
		}
		return printResult(task,
			fmt.Sprintf("%s  %-8s %s", task.ID, task.Status, task.Title),
			task.Description)
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, svc, err := openServices()
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := currentUser(svc)
		if err != nil {
			return err
		}
		if err := svc.Tasks.Complete(user.ID, args[0]); err != nil {
			return err
		}
		return printResult(map[string]string{"status": types.TaskStatusDone},
			fmt.Sprintf("task %s done", args[0]))
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, svc, err := openServices()
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := currentUser(svc)
		if err != nil {
			return err
		}
		if err := svc.Tasks.Delete(user.ID, args[0]); err != nil {
			return err
		}
		return printResult(map[string]string{"status": "deleted"},
			fmt.Sprintf("task %s deleted", args[0]))
	},
}

func init() {
	taskAddCmd.Flags().StringVar(&taskTitle, "title", "", "task title (required)")
	taskAddCmd.Flags().StringVar(&taskDescription, "description", "", "task description")
	_ = taskAddCmd.MarkFlagRequired("title")

	taskListCmd.Flags().StringVar(&taskSort, "sort", service.SortByCreated, "sort order: created_at or title")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskRmCmd)
}
