// Note commands, including sharing.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes under tasks",
}

var (
	noteTask    string
	noteContent string
	noteTarget  string
)

var noteAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Add a note to a task",
	Example: `  jotter note add --task 1a2b3c4d5e6f7a8b --content "call supplier"`,
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
		note, err := svc.Notes.Create(user.ID, noteTask, noteContent)
		if err != nil {
			return err
		}
		return printResult(note, fmt.Sprintf("created note %s", note.ID))
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the notes of a task, newest first",
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
		notes, err := svc.Notes.List(user.ID, noteTask)
		if err != nil {
			return err
		}
		lines := make([]string, len(notes))
		for i, n := range notes {
			lines[i] = fmt.Sprintf("%s  %s", n.ID, n.Content)
		}
		return printResult(notes, lines...)
	},
}

var noteEditCmd = &cobra.Command{
	Use:   "edit <note-id>",
	Short: "Replace a note's content",
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
		if err := svc.Notes.Edit(user.ID, args[0], noteContent); err != nil {
			return err
		}
		return printResult(map[string]string{"status": "ok"},
			fmt.Sprintf("note %s updated", args[0]))
	},
}

var noteRmCmd = &cobra.Command{
	Use:   "rm <note-id>",
	Short: "Delete a note and its share grants",
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
		if err := svc.Notes.Delete(user.ID, args[0]); err != nil {
			return err
		}
		return printResult(map[string]string{"status": "deleted"},
			fmt.Sprintf("note %s deleted", args[0]))
	},
}

var noteShareCmd = &cobra.Command{
	Use:   "share <note-id>",
	Short: "Share a note with another user",
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
		if err := svc.Notes.Share(user.ID, args[0], noteTarget); err != nil {
			return err
		}
		return printResult(map[string]string{"status": "shared"},
			fmt.Sprintf("note %s shared with %s", args[0], noteTarget))
	},
}

var noteSharedCmd = &cobra.Command{
	Use:   "shared",
	Short: "List notes shared with you",
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
		shared, err := svc.Notes.ListShared(user.ID)
		if err != nil {
			return err
		}
		lines := make([]string, len(shared))
		for i, sn := range shared {
			lines[i] = fmt.Sprintf("%s  (from %s)  %s", sn.Note.ID, sn.SharedBy, sn.Note.Content)
		}
		return printResult(shared, lines...)
	},
}

func init() {
	noteAddCmd.Flags().StringVar(&noteTask, "task", "", "parent task id (required)")
	noteAddCmd.Flags().StringVar(&noteContent, "content", "", "note content (required)")
	_ = noteAddCmd.MarkFlagRequired("task")
	_ = noteAddCmd.MarkFlagRequired("content")

	noteListCmd.Flags().StringVar(&noteTask, "task", "", "parent task id (required)")
	_ = noteListCmd.MarkFlagRequired("task")

	noteEditCmd.Flags().StringVar(&noteContent, "content", "", "replacement content (required)")
	_ = noteEditCmd.MarkFlagRequired("content")

	noteShareCmd.Flags().StringVar(&noteTarget, "with", "", "username to share with (required)")
	_ = noteShareCmd.MarkFlagRequired("with")

	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteEditCmd)
	noteCmd.AddCommand(noteRmCmd)
	noteCmd.AddCommand(noteShareCmd)
	noteCmd.AddCommand(noteSharedCmd)
}
