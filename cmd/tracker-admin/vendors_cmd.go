package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/actiontracker/tracker/modules/tracker/infrastructure/persistence"
	"github.com/actiontracker/tracker/modules/tracker/services"
)

func newVendorService() *services.VendorService {
	return services.NewVendorService(persistence.NewVendorRepository(), persistence.NewActionItemRepository())
}

func newCreateVendorCmd() *cobra.Command {
	var dto services.CreateVendorDTO

	cmd := &cobra.Command{
		Use:   "create-vendor",
		Short: "Create a vendor with its own item numbering",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dto.Ok(); err != nil {
				return withCode(exitValidation, err)
			}
			return withDB(cmd.Context(), func(ctx context.Context) error {
				v, err := newVendorService().Create(ctx, dto)
				if err != nil {
					return withCode(exitDBWrite, err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created vendor %d: %s (%s)\n", v.ID, v.Prefix, v.Name)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&dto.Prefix, "prefix", "", "Item id prefix, 2-5 uppercase letters (required)")
	cmd.Flags().StringVar(&dto.Name, "name", "", "Vendor name (required)")
	cmd.Flags().StringVar(&dto.Description, "description", "", "Optional description")
	_ = cmd.MarkFlagRequired("prefix")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newListVendorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-vendors",
		Short: "List vendors sorted by prefix",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context) error {
				vendors, err := newVendorService().ListByPrefix(ctx)
				if err != nil {
					return err
				}
				rows := make([][]any, 0, len(vendors))
				for _, v := range vendors {
					rows = append(rows, []any{v.ID, v.Prefix, v.Name, v.NextNumber})
				}
				return writeTable(cmd.OutOrStdout(), "ID\tPREFIX\tNAME\tNEXT #", rows)
			})
		},
	}
}

func newResetSequenceCmd() *cobra.Command {
	var (
		prefix string
		to     int
	)

	cmd := &cobra.Command{
		Use:   "reset-sequence",
		Short: "Show or set a vendor's next item number",
		RunE: func(cmd *cobra.Command, args []string) error {
			set := cmd.Flags().Changed("to")
			return withDB(cmd.Context(), func(ctx context.Context) error {
				svc := newVendorService()
				seq, err := svc.Sequence(ctx, prefix)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if _, err := fmt.Fprintf(out, "Vendor %s: next number %d, highest existing item %d\n",
					seq.Vendor.Prefix, seq.Vendor.NextNumber, seq.MaxNumber); err != nil {
					return err
				}
				if !set {
					return nil
				}
				seq, err = svc.ResetSequence(ctx, prefix, to)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "Next number set to %d\n", seq.Vendor.NextNumber)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&prefix, "vendor", "", "Vendor prefix (required)")
	cmd.Flags().IntVar(&to, "to", 0, "New next number; must exceed the highest existing item number")
	_ = cmd.MarkFlagRequired("vendor")

	return cmd
}
