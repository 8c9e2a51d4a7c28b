// Subtask commands.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var subtaskCmd = &cobra.Command{
	Use:   "subtask",
	Short: "Manage subtasks under tasks",
}

var (
	subtaskTask  string
	subtaskTitle string
)

var subtaskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a subtask to a task",
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
		sub, err := svc.Subtasks.Create(user.ID, subtaskTask, subtaskTitle)
		if err != nil {
			return err
		}
		return printResult(sub, fmt.Sprintf("created subtask %s", sub.ID))
	},
}

var subtaskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the subtasks of a task",
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
		subs, err := svc.Subtasks.List(user.ID, subtaskTask)
		if err != nil {
			return err
		}
		lines := make([]string, len(subs))
		for i, st := range subs {
			mark := " "
			if st.Completed {
				mark = "x"
			}
			lines[i] = fmt.Sprintf("[%s] %s  %s", mark, st.ID, st.Title)
		}
		return printResult(subs, lines...)
	},
}

var subtaskDoneCmd = &cobra.Command{
	Use:   "done <subtask-id>",
	Short: "Mark a subtask completed",
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
		if err := svc.Subtasks.Complete(user.ID, subtaskTask, args[0]); err != nil {
			return err
		}
		return printResult(map[string]string{"status": "completed"},
			fmt.Sprintf("subtask %s done", args[0]))
	},
}

func init() {
	subtaskAddCmd.Flags().StringVar(&subtaskTask, "task", "", "parent task id (required)")
	subtaskAddCmd.Flags().StringVar(&subtaskTitle, "title", "", "subtask title (required)")
	_ = subtaskAddCmd.MarkFlagRequired("task")
	_ = subtaskAddCmd.MarkFlagRequired("title")

	subtaskListCmd.Flags().StringVar(&subtaskTask, "task", "", "parent task id (required)")
	_ = subtaskListCmd.MarkFlagRequired("task")

	subtaskDoneCmd.Flags().StringVar(&subtaskTask, "task", "", "parent task id (required)")
	_ = subtaskDoneCmd.MarkFlagRequired("task")

	subtaskCmd.AddCommand(subtaskAddCmd)
	subtaskCmd.AddCommand(subtaskListCmd)
	subtaskCmd.AddCommand(subtaskDoneCmd)
}
