package main

import (
	"fmt"
	"strconv"

	"github.com/ajramos/tagview/internal/filter"
	"github.com/ajramos/tagview/internal/models"
	"github.com/ajramos/tagview/internal/services"
	"github.com/spf13/cobra"
)

var (
	viewsListAll bool

	viewAddAny     []string
	viewAddAll     []string
	viewAddExclude []string
	viewAddIcon    string
	viewAddHidden  bool
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Manage saved views",
	Long: `Manage saved views.

A view is a named list of tag conditions. A message matches a view when it
satisfies every condition:

  includes-any   the message has at least one of the tags
  includes-all   the message has every one of the tags
  excludes-any   the message has none of the tags`,
}

var viewsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List views with their match counts",
	Args:  cobra.NoArgs,
	RunE:  runViewsList,
}

var viewsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a view's conditions and matching messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runViewsShow,
}

var viewsSelectCmd = &cobra.Command{
	Use:   "select [id]",
	Short: "Select the current view, or clear the selection",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runViewsSelect,
}

var viewsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a view",
	Args:  cobra.ExactArgs(1),
	RunE:  runViewsAdd,
}

var viewsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a view",
	Args:  cobra.ExactArgs(1),
	RunE:  runViewsDelete,
}

var viewsHideCmd = &cobra.Command{
	Use:   "hide <id>",
	Short: "Hide a view from navigation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setViewVisible(cmd, args[0], false)
	},
}

var viewsUnhideCmd = &cobra.Command{
	Use:   "unhide <id>",
	Short: "Show a hidden view in navigation again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setViewVisible(cmd, args[0], true)
	},
}

var viewsReorderCmd = &cobra.Command{
	Use:   "reorder <id>...",
	Short: "Set the display order of all views",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runViewsReorder,
}

var viewsAddConditionCmd = &cobra.Command{
	Use:   "add-condition <view> <type> <tag>...",
	Short: "Append a condition to a view",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runViewsAddCondition,
}

var viewsUpdateConditionCmd = &cobra.Command{
	Use:   "update-condition <view> <index> <type> <tag>...",
	Short: "Replace the condition at index (starting at 1)",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runViewsUpdateCondition,
}

var viewsRemoveConditionCmd = &cobra.Command{
	Use:   "remove-condition <view> <index>",
	Short: "Remove the condition at index (starting at 1)",
	Args:  cobra.ExactArgs(2),
	RunE:  runViewsRemoveCondition,
}

func init() {
	viewsCmd.AddCommand(viewsListCmd)
	viewsCmd.AddCommand(viewsShowCmd)
	viewsCmd.AddCommand(viewsSelectCmd)
	viewsCmd.AddCommand(viewsAddCmd)
	viewsCmd.AddCommand(viewsDeleteCmd)
	viewsCmd.AddCommand(viewsHideCmd)
	viewsCmd.AddCommand(viewsUnhideCmd)
	viewsCmd.AddCommand(viewsReorderCmd)
	viewsCmd.AddCommand(viewsAddConditionCmd)
	viewsCmd.AddCommand(viewsUpdateConditionCmd)
	viewsCmd.AddCommand(viewsRemoveConditionCmd)

	viewsListCmd.Flags().BoolVar(&viewsListAll, "all", false, "Include hidden views")

	viewsAddCmd.Flags().StringSliceVar(&viewAddAny, "any", nil, "Tags of which the message needs at least one")
	viewsAddCmd.Flags().StringSliceVar(&viewAddAll, "all", nil, "Tags the message needs every one of")
	viewsAddCmd.Flags().StringSliceVar(&viewAddExclude, "exclude", nil, "Tags the message must not have")
	viewsAddCmd.Flags().StringVar(&viewAddIcon, "icon", "", "Icon shown before the view name")
	viewsAddCmd.Flags().BoolVar(&viewAddHidden, "hidden", false, "Create the view hidden from navigation")
}

func runViewsList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	views := app.views.ListViews()
	if !viewsListAll {
		views = filter.VisibleViews(views)
	}
	if len(views) == 0 {
		fmt.Fprintln(out, "No views to show.")
		return nil
	}

	selectedID := ""
	if sel := app.views.SelectedView(); sel != nil {
		selectedID = sel.ID
	}
	counts := filter.CountsByView(app.Messages(), views)

	fmt.Fprintf(out, "Views (%d):\n\n", len(views))
	for _, v := range views {
		fmt.Fprintln(out, app.renderer.FormatViewRow(v, counts[v.ID], v.ID == selectedID))
	}
	fmt.Fprintf(out, "\nAll messages: %d\n", len(app.Messages()))
	return nil
}

func runViewsShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	view, ok := app.views.GetView(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", services.ErrViewNotFound, args[0])
	}

	fmt.Fprintf(out, "%s (%s)\n", view.Name, view.ID)
	if !view.Visible {
		fmt.Fprintln(out, "Hidden from navigation")
	}
	if len(view.Conditions) == 0 {
		fmt.Fprintln(out, "No conditions; the view matches nothing.")
	}
	for i, c := range view.Conditions {
		fmt.Fprintf(out, "  %d. %s\n", i+1, app.renderer.FormatCondition(c))
	}

	if refs := filter.ReferencedTags(view); len(refs) > 0 {
		var missing []string
		for _, id := range refs {
			if _, ok := app.tags.GetTag(id); !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			fmt.Fprintf(out, "Unknown tags: %v\n", missing)
		}
	}

	matches := filter.FilterByView(app.Messages(), &view)
	fmt.Fprintf(out, "\nMessages (%d):\n", len(matches))
	for _, m := range matches {
		fmt.Fprintln(out, app.renderer.FormatMessageRow(m))
	}
	return nil
}

func runViewsSelect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	id := ""
	if len(args) == 1 {
		id = args[0]
	}
	if err := app.SelectView(cmd.Context(), id); err != nil {
		return err
	}
	if id == "" {
		fmt.Fprintln(out, "Showing all messages")
		return nil
	}
	sel := app.views.SelectedView()
	fmt.Fprintf(out, "Selected view %q (%d messages)\n", sel.Name, filter.CountForView(app.Messages(), sel))
	return nil
}

func runViewsAdd(cmd *cobra.Command, args []string) error {
	view := models.View{
		Name:    args[0],
		Visible: !viewAddHidden,
		Icon:    viewAddIcon,
	}
	for _, c := range []models.Condition{
		{Type: models.ConditionIncludesAny, Tags: viewAddAny},
		{Type: models.ConditionIncludesAll, Tags: viewAddAll},
		{Type: models.ConditionExcludesAny, Tags: viewAddExclude},
	} {
		if len(c.Tags) > 0 {
			view.Conditions = append(view.Conditions, c)
		}
	}

	saved, err := app.views.SaveView(view)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created view %q (%s) with %d condition(s)\n", saved.Name, saved.ID, len(saved.Conditions))
	return nil
}

func runViewsDelete(cmd *cobra.Command, args []string) error {
	if !app.views.DeleteView(args[0]) {
		return fmt.Errorf("%w: %s", services.ErrViewNotFound, args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted view %s\n", args[0])
	return nil
}

func setViewVisible(cmd *cobra.Command, id string, visible bool) error {
	if err := app.views.SetVisible(id, visible); err != nil {
		return err
	}
	state := "hidden"
	if visible {
		state = "visible"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "View %s is now %s\n", id, state)
	return nil
}

func runViewsReorder(cmd *cobra.Command, args []string) error {
	if err := app.views.ReorderViews(args); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reordered %d views\n", len(args))
	return nil
}

func runViewsAddCondition(cmd *cobra.Command, args []string) error {
	view, err := app.views.AddCondition(args[0], models.Condition{
		Type: models.ConditionType(args[1]),
		Tags: args[2:],
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d condition(s)\n", view.Name, len(view.Conditions))
	return nil
}

func runViewsUpdateCondition(cmd *cobra.Command, args []string) error {
	index, err := conditionIndex(args[1])
	if err != nil {
		return err
	}
	view, err := app.views.UpdateCondition(args[0], index, models.Condition{
		Type: models.ConditionType(args[2]),
		Tags: args[3:],
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated condition %d of %s: %s\n", index+1, view.Name, app.renderer.FormatCondition(view.Conditions[index]))
	return nil
}

func runViewsRemoveCondition(cmd *cobra.Command, args []string) error {
	index, err := conditionIndex(args[1])
	if err != nil {
		return err
	}
	view, err := app.views.RemoveCondition(args[0], index)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d condition(s)\n", view.Name, len(view.Conditions))
	return nil
}

// conditionIndex converts a 1-based index argument to a slice index
func conditionIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: condition index must be a positive number, got %q", services.ErrInvalidInput, arg)
	}
	return n - 1, nil
}
