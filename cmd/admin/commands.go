package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"grievanceportal/backend/internal/analysis"
	"grievanceportal/backend/internal/apperr"
	"grievanceportal/backend/internal/auth"
	"grievanceportal/backend/internal/grievance"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/storage"

	"github.com/spf13/cobra"
)

func createAdminCmd() *cobra.Command {
	var in auth.Account
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.ConfirmPassword = in.Password
			user, err := a.users.CreateAdmin(cmd.Context(), in)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admin %s created with id %s\n", user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "login email")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&in.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&in.InstitutionID, "employee-id", "", "employee code")
	cmd.Flags().StringVar(&in.Language, "language", "en", "notification language (en, uk)")
	for _, f := range []string{"email", "password", "name", "employee-id"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func listCmd() *cobra.Command {
	var status, category, search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List grievances, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.grievances.ListAll(cmd.Context(), analysis.Filter{
				Search:   search,
				Category: models.Category(category),
				Status:   models.Status(status),
			})
			if err != nil {
				return describe(err)
			}
			return printGrievances(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only this status")
	cmd.Flags().StringVar(&category, "category", "", "only this category")
	cmd.Flags().StringVar(&search, "search", "", "match code, title or description")
	return cmd
}

func updateStatusCmd() *cobra.Command {
	var comment, actingAs string
	cmd := &cobra.Command{
		Use:   "update-status <grievance-id> <status>",
		Short: "Change the status of a grievance",
		Long: `Change the status of a grievance on behalf of an administrator.

Valid statuses: Submitted, "In Progress", Resolved, Closed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			admin, err := a.store.GetUserByEmail(ctx, actingAs)
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no account with email %s", actingAs)
			}
			if err != nil {
				return err
			}

			change := grievance.StatusChange{Status: args[1]}
			if cmd.Flags().Changed("comment") {
				change.ResolutionComments = &comment
			}
			g, err := a.grievances.UpdateStatus(ctx, args[0], change, admin)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", g.Code, g.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "resolution comments shown to the submitter")
	cmd.Flags().StringVar(&actingAs, "as", "", "email of the administrator making the change")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print dashboard figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.grievances.Analytics(cmd.Context())
			if err != nil {
				return describe(err)
			}
			return printSummary(cmd.OutOrStdout(), s)
		},
	}
}

func printGrievances(w io.Writer, list []models.Grievance) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tSTATUS\tCATEGORY\tSUB-CATEGORY\tCREATED\tTITLE")
	for _, g := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			g.Code, g.Status, g.Category, g.SubCategory(), g.CreatedAt.Format("2006-01-02"), g.Title)
	}
	fmt.Fprintf(tw, "\n%d grievance(s)\n", len(list))
	return tw.Flush()
}

func printSummary(w io.Writer, s analysis.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total\t%d\n", s.Total)
	fmt.Fprintf(tw, "Resolved\t%d (%.1f%%)\n", s.Resolved, s.ResolutionRate)
	fmt.Fprintf(tw, "Avg. resolution\t%.1f days\n", s.AvgResolutionDays)
	fmt.Fprintln(tw)
	for _, st := range models.AllStatuses {
		fmt.Fprintf(tw, "%s\t%d\n", st, s.ByStatus[st])
	}
	fmt.Fprintln(tw)
	for _, c := range models.AllCategories {
		fmt.Fprintf(tw, "%s\t%d\n", c, s.ByCategory[c])
	}
	return tw.Flush()
}

// describe flattens field errors into the message.
func describe(err error) error {
	fields := apperr.FieldsOf(err)
	if len(fields) == 0 {
		return err
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Field + ": " + f.Error
	}
	return fmt.Errorf("%w (%s)", err, strings.Join(parts, "; "))
}
