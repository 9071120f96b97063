package main

import (
	"errors"
	"fmt"

	"github.com/ajramos/tagview/internal/services"
	"github.com/spf13/cobra"
)

var undoDryRun bool

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the last tag or untag",
	Args:  cobra.NoArgs,
	RunE:  runUndo,
}

func init() {
	undoCmd.Flags().BoolVar(&undoDryRun, "dry-run", false, "Only describe what would be undone")
}

func runUndo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if undoDryRun {
		fmt.Fprintln(out, app.undo.GetUndoDescription())
		return nil
	}

	updated, result, err := app.undo.UndoLastAction(app.Messages())
	if errors.Is(err, services.ErrNothingToUndo) {
		fmt.Fprintln(out, "Nothing to undo")
		return nil
	}
	if err != nil {
		return err
	}
	if err := app.ApplyMessages(cmd.Context(), updated, result.MessageID); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s on %s\n", result.Description, result.MessageID)
	return nil
}
