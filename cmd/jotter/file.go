// Attachment commands.
package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Manage task attachments",
}

var (
	fileTask string
	fileMIME string
	fileOut  string
)

var fileAttachCmd = &cobra.Command{
	Use:     "attach <path>",
	Short:   "Attach a local file to a task",
	Example: `  jotter file attach report.txt --task 1a2b3c4d5e6f7a8b`,
	Args:    cobra.ExactArgs(1),
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
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		mimeType := fileMIME
		if mimeType == "" {
			if guessed := mime.TypeByExtension(filepath.Ext(args[0])); guessed != "" {
				// Drop parameters such as charset; only the bare type is stored.
				mimeType, _, _ = mime.ParseMediaType(guessed)
			}
			if mimeType == "" {
				mimeType = "application/octet-stream"
			}
		}
		ref, err := svc.Files.Attach(user.ID, fileTask, filepath.Base(args[0]), mimeType, content)
		if err != nil {
			return err
		}
		return printResult(ref, fmt.Sprintf("attached %s as %s", ref.Filename, ref.ID))
	},
}

var fileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the attachments of a task",
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
		refs, err := svc.Files.List(user.ID, fileTask)
		if err != nil {
			return err
		}
		lines := make([]string, len(refs))
		for i, ref := range refs {
			lines[i] = fmt.Sprintf("%s  %-24s %s", ref.ID, ref.Filename, ref.MIME)
		}
		return printResult(refs, lines...)
	},
}

var fileGetCmd = &cobra.Command{
	Use:   "get <file-id>",
	Short: "Download an attachment",
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
		ref, content, err := svc.Files.Get(user.ID, args[0])
		if err != nil {
			return err
		}
		out := fileOut
		if out == "" {
			out = ref.Filename
		}
		if err := os.WriteFile(out, content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		return printResult(ref, fmt.Sprintf("wrote %s (%d bytes)", out, len(content)))
	},
}

var fileRmCmd = &cobra.Command{
	Use:   "rm <file-id>",
	Short: "Delete an attachment",
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
		if err := svc.Files.Delete(user.ID, args[0]); err != nil {
			return err
		}
		return printResult(map[string]string{"status": "deleted"},
			fmt.Sprintf("file %s deleted", args[0]))
	},
}

func init() {
	fileAttachCmd.Flags().StringVar(&fileTask, "task", "", "parent task id (required)")
	fileAttachCmd.Flags().StringVar(&fileMIME, "mime", "", "media type (default: guessed from extension)")
	_ = fileAttachCmd.MarkFlagRequired("task")

	fileListCmd.Flags().StringVar(&fileTask, "task", "", "parent task id (required)")
	_ = fileListCmd.MarkFlagRequired("task")

	fileGetCmd.Flags().StringVar(&fileOut, "out", "", "output path (default: stored filename)")

	fileCmd.AddCommand(fileAttachCmd)
	fileCmd.AddCommand(fileListCmd)
	fileCmd.AddCommand(fileGetCmd)
	fileCmd.AddCommand(fileRmCmd)
}
