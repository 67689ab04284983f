package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/actiontracker/tracker/modules/tracker/infrastructure/persistence"
	"github.com/actiontracker/tracker/modules/tracker/services"
)

func newShowItemCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "show-item",
		Short: "Show an action item with its current status and notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context) error {
				detail, err := services.NewItemService(persistence.NewActionItemRepository()).Detail(ctx, id)
				if err != nil {
					return err
				}
				return writeItemDetail(cmd.OutOrStdout(), detail)
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Action item id, e.g. AD-007 (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

const dateLayout = "2006-01-02"

func writeItemDetail(w io.Writer, d services.ItemDetail) error {
	it := d.Item
	due := "none"
	if it.DueDate != nil {
		due = it.DueDate.Format(dateLayout)
	}
	status := "none"
	if d.Status != nil {
		status = fmt.Sprintf("%s (since %s)", d.Status.Status, d.Status.ChangedAt.Format(dateLayout))
	}

	if _, err := fmt.Fprintf(w, "%s  %s\nPriority: %s\nCreated: %s\nDue: %s\nStatus: %s\n",
		it.ID, it.Title, it.Priority, it.CreateDate.Format(dateLayout), due, status); err != nil {
		return err
	}
	if desc := deref(it.Description); desc != "" {
		if _, err := fmt.Fprintf(w, "Description: %s\n", desc); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Notes (%d):\n", len(d.Notes)); err != nil {
		return err
	}
	for _, n := range d.Notes {
		if _, err := fmt.Fprintf(w, "  [%s] %s\n", n.NoteDate.Format(dateLayout), n.Content); err != nil {
			return err
		}
	}
	return nil
}
