package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/actiontracker/tracker/modules/tracker/infrastructure/persistence"
	"github.com/actiontracker/tracker/modules/tracker/services"
)

func newCreateUserCmd() *cobra.Command {
	var dto services.CreateUserDTO

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dto.Ok(); err != nil {
				return withCode(exitValidation, err)
			}
			return withDB(cmd.Context(), func(ctx context.Context) error {
				u, err := services.NewUserService(persistence.NewUserRepository()).Create(ctx, dto)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created user %d: %s <%s>\n", u.ID, u.Name, u.Email)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&dto.Email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&dto.Name, "name", "", "Full name (required)")
	cmd.Flags().StringVar(&dto.Initials, "initials", "", "Initials used in tracker exports")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newListUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Short: "List users sorted by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context) error {
				users, err := services.NewUserService(persistence.NewUserRepository()).ListByName(ctx)
				if err != nil {
					return err
				}
				rows := make([][]any, 0, len(users))
				for _, u := range users {
					rows = append(rows, []any{u.ID, u.Name, u.Email, u.InitialsOrEmpty()})
				}
				return writeTable(cmd.OutOrStdout(), "ID\tNAME\tEMAIL\tINITIALS", rows)
			})
		},
	}
}
