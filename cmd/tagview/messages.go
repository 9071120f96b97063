package main

import (
	"fmt"
	"strings"

	"github.com/ajramos/tagview/internal/filter"
	"github.com/ajramos/tagview/internal/models"
	"github.com/ajramos/tagview/internal/services"
	"github.com/spf13/cobra"
)

var (
	messagesListView string
	messagesListAll  bool
	untagNegative    bool
)

var messagesCmd = &cobra.Command{
	Use:     "messages",
	Aliases: []string{"msg"},
	Short:   "List messages and edit their tags",
}

var messagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List messages in the selected view",
	Long: `List messages in the selected view.

Use --view to list another view without changing the selection, or --all to
list every message.`,
	Args: cobra.NoArgs,
	RunE: runMessagesList,
}

var messagesShowCmd = &cobra.Command{
	Use:   "show <message>",
	Short: "Show a message and its tags",
	Args:  cobra.ExactArgs(1),
	RunE:  runMessagesShow,
}

var messagesTagCmd = &cobra.Command{
	Use:   "tag <message> <tag>...",
	Short: "Add tags to a message",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runMessagesTag,
}

var messagesUntagCmd = &cobra.Command{
	Use:   "untag <message> <tag>",
	Short: "Remove a tag from a message",
	Long: `Remove a tag from a message.

With --negative the message's subject and preview are also recorded on the
tag as a negative example, so later classification can learn from it.`,
	Args: cobra.ExactArgs(2),
	RunE: runMessagesUntag,
}

func init() {
	messagesCmd.AddCommand(messagesListCmd)
	messagesCmd.AddCommand(messagesShowCmd)
	messagesCmd.AddCommand(messagesTagCmd)
	messagesCmd.AddCommand(messagesUntagCmd)

	messagesListCmd.Flags().StringVar(&messagesListView, "view", "", "List this view instead of the selected one")
	messagesListCmd.Flags().BoolVar(&messagesListAll, "all", false, "List all messages")
	messagesListCmd.MarkFlagsMutuallyExclusive("view", "all")

	messagesUntagCmd.Flags().BoolVar(&untagNegative, "negative", false, "Record the message as a negative example for the tag")
}

func runMessagesList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	var view *models.View
	switch {
	case messagesListAll:
	case messagesListView != "":
		v, ok := app.views.GetView(messagesListView)
		if !ok {
			return fmt.Errorf("%w: %s", services.ErrViewNotFound, messagesListView)
		}
		view = &v
	default:
		view = app.views.SelectedView()
	}

	messages := filter.FilterByView(app.Messages(), view)
	title := "All messages"
	if view != nil {
		title = view.Name
	}
	fmt.Fprintf(out, "%s (%d):\n\n", title, len(messages))
	if len(messages) == 0 {
		if view != nil && filter.IsEmpty(*view) {
			fmt.Fprintln(out, "This view has no conditions yet.")
		}
		return nil
	}

	width := 0
	for _, m := range messages {
		if len(m.ID) > width {
			width = len(m.ID)
		}
	}
	for _, m := range messages {
		fmt.Fprintf(out, "%-*s  %s\n", width, m.ID, app.renderer.FormatMessageRow(m))
	}
	return nil
}

func runMessagesShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	m, ok := findMessage(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", services.ErrMessageNotFound, args[0])
	}

	fmt.Fprintf(out, "From:    %s\n", m.Sender)
	fmt.Fprintf(out, "Subject: %s\n", m.Subject)
	if !m.Date.IsZero() {
		fmt.Fprintf(out, "Date:    %s\n", m.Date.Local().Format("Mon, 02 Jan 2006 15:04"))
	}
	if names := app.renderer.TagNames(m.Tags); len(names) > 0 {
		fmt.Fprintf(out, "Tags:    %s\n", strings.Join(names, ", "))
	}
	if m.Preview != "" {
		fmt.Fprintf(out, "\n%s\n", m.Preview)
	}
	return nil
}

func runMessagesTag(cmd *cobra.Command, args []string) error {
	messageID, tagIDs := args[0], args[1:]
	before, ok := findMessage(messageID)
	if !ok {
		return fmt.Errorf("%w: %s", services.ErrMessageNotFound, messageID)
	}
	for _, id := range tagIDs {
		if _, ok := app.tags.GetTag(id); !ok {
			return fmt.Errorf("%w: %s", services.ErrTagNotFound, id)
		}
	}

	updated := app.mutation.AddTagsToMessage(app.Messages(), messageID, tagIDs)
	if err := app.ApplyMessages(cmd.Context(), updated, messageID); err != nil {
		return err
	}

	after, _ := findMessage(messageID)
	added := len(after.Tags) - len(before.Tags)
	fmt.Fprintf(cmd.OutOrStdout(), "Added %d tag(s) to %s\n", added, messageID)
	return nil
}

func runMessagesUntag(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	messageID, tagID := args[0], args[1]
	before, ok := findMessage(messageID)
	if !ok {
		return fmt.Errorf("%w: %s", services.ErrMessageNotFound, messageID)
	}

	if untagNegative {
		result, err := app.UntagWithNegativeExample(cmd.Context(), messageID, tagID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Recorded negative example for %q (%d total)\n", result.Tag.Name, len(result.Tag.NegativeExamples))
	} else {
		updated := app.mutation.RemoveTagFromMessage(app.Messages(), messageID, tagID)
		if err := app.ApplyMessages(cmd.Context(), updated, messageID); err != nil {
			return err
		}
	}

	if before.HasTag(tagID) {
		fmt.Fprintf(out, "Removed %s from %s\n", tagID, messageID)
	} else {
		fmt.Fprintf(out, "%s did not carry %s\n", messageID, tagID)
	}
	return nil
}

func findMessage(id string) (models.Message, bool) {
	for _, m := range app.Messages() {
		if m.ID == id {
			return m, true
		}
	}
	return models.Message{}, false
}
