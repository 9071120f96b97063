package main

import (
	"fmt"
	"strings"

	"github.com/ajramos/tagview/internal/models"
	"github.com/ajramos/tagview/internal/services"
	"github.com/spf13/cobra"
)

var tagsSortByUsage bool

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage the tag registry",
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags with the number of messages carrying each",
	Args:  cobra.NoArgs,
	RunE:  runTagsList,
}

var tagsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagsAdd,
}

var tagsRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a tag",
	Args:  cobra.ExactArgs(2),
	RunE:  runTagsRename,
}

var tagsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a tag",
	Long: `Delete a tag from the registry.

Messages and view conditions that reference the tag keep the ID; it is simply
no longer displayed or offered.`,
	Args: cobra.ExactArgs(1),
	RunE: runTagsDelete,
}

var tagsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find tags whose name contains query",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagsSearch,
}

var tagsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a tag with its instructions and examples",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagsShow,
}

var tagsInstructionsCmd = &cobra.Command{
	Use:   "instructions <id> [instruction...]",
	Short: "Replace the classification instructions of a tag",
	Long: `Replace the classification instructions of a tag.

Blank instructions are dropped. At most five are kept per tag. Passing no
instructions clears the list.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTagsInstructions,
}

var tagsExamplesCmd = &cobra.Command{
	Use:   "examples <id> [example...]",
	Short: "Replace the example emails of a tag",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTagsExamples,
}

var tagsReorderCmd = &cobra.Command{
	Use:   "reorder <id>...",
	Short: "Set the display order of all tags",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTagsReorder,
}

func init() {
	tagsCmd.AddCommand(tagsListCmd)
	tagsCmd.AddCommand(tagsAddCmd)
	tagsCmd.AddCommand(tagsRenameCmd)
	tagsCmd.AddCommand(tagsDeleteCmd)
	tagsCmd.AddCommand(tagsSearchCmd)
	tagsCmd.AddCommand(tagsShowCmd)
	tagsCmd.AddCommand(tagsInstructionsCmd)
	tagsCmd.AddCommand(tagsExamplesCmd)
	tagsCmd.AddCommand(tagsReorderCmd)

	tagsListCmd.Flags().BoolVar(&tagsSortByUsage, "sort-usage", false, "Sort by number of messages, most used first")
}

func runTagsList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	tags := app.tags.ListTags()
	if len(tags) == 0 {
		fmt.Fprintln(out, "No tags defined.")
		fmt.Fprintln(out, "\nCreate one with: tagview tags add <name>")
		return nil
	}

	counts := services.TagUsageCounts(app.Messages(), tags)
	if tagsSortByUsage {
		tags = services.SortTagsByUsage(tags, counts)
	}

	fmt.Fprintf(out, "Tags (%d):\n\n", len(tags))
	for _, tag := range tags {
		fmt.Fprintln(out, app.renderer.FormatTagRow(tag, counts[tag.ID]))
	}
	return nil
}

func runTagsAdd(cmd *cobra.Command, args []string) error {
	tag, err := app.tags.AddTag(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created tag %q (%s)\n", tag.Name, tag.ID)
	return nil
}

func runTagsRename(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	tag, ok := app.tags.GetTag(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", services.ErrTagNotFound, args[0])
	}

	if similar := app.tags.SimilarTags(args[1], tag.ID); len(similar) > 0 {
		fmt.Fprintf(out, "Similar tags: %s\n", joinTagNames(similar))
	}

	tag.Name = args[1]
	updated, err := app.tags.UpdateTag(tag)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Renamed %s to %q\n", updated.ID, updated.Name)
	return nil
}

func runTagsDelete(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	tag, ok := app.tags.GetTag(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", services.ErrTagNotFound, args[0])
	}

	usage := services.TagUsageCounts(app.Messages(), []models.Tag{tag})[tag.ID]
	app.tags.DeleteTag(tag.ID)

	fmt.Fprintf(out, "Deleted tag %q\n", tag.Name)
	if usage > 0 {
		fmt.Fprintf(out, "Note: %d message(s) still reference %s\n", usage, tag.ID)
	}
	return nil
}

func runTagsSearch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	matches := app.tags.SearchTags(args[0])
	if len(matches) == 0 {
		fmt.Fprintf(out, "No tags match %q\n", args[0])
		return nil
	}
	counts := services.TagUsageCounts(app.Messages(), matches)
	for _, tag := range matches {
		fmt.Fprintln(out, app.renderer.FormatTagRow(tag, counts[tag.ID]))
	}
	return nil
}

func runTagsShow(cmd *cobra.Command, args []string) error {
	tag, ok := app.tags.GetTag(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", services.ErrTagNotFound, args[0])
	}
	fmt.Fprint(cmd.OutOrStdout(), app.renderer.FormatTagDetail(tag))
	return nil
}

func runTagsInstructions(cmd *cobra.Command, args []string) error {
	tag, ok := app.tags.GetTag(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", services.ErrTagNotFound, args[0])
	}
	tag.Instructions = args[1:]
	updated, err := app.tags.UpdateTag(tag)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d instruction(s)\n", updated.Name, len(updated.Instructions))
	return nil
}

func runTagsExamples(cmd *cobra.Command, args []string) error {
	tag, ok := app.tags.GetTag(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", services.ErrTagNotFound, args[0])
	}
	examples := make([]string, 0, len(args)-1)
	for _, ex := range args[1:] {
		if ex = strings.TrimSpace(ex); ex != "" {
			examples = append(examples, ex)
		}
	}
	tag.ExampleEmails = examples
	updated, err := app.tags.UpdateTag(tag)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d example(s)\n", updated.Name, len(updated.ExampleEmails))
	return nil
}

func runTagsReorder(cmd *cobra.Command, args []string) error {
	if err := app.tags.ReorderTags(args); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reordered %d tags\n", len(args))
	return nil
}

func joinTagNames(tags []models.Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}
