package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// submissionsCmd prints the submissions table to the terminal.
var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "List submitted applications",

	RunE: func(cmd *cobra.Command, args []string) error {
		apiURL, _ := cmd.Flags().GetString("api-url")
		sortColumn, _ := cmd.Flags().GetString("sort")
		descending, _ := cmd.Flags().GetBool("desc")
		if !cmd.Flags().Changed("api-url") && config.APIURL != "" {
			apiURL = config.APIURL
		}

		logger := setupLogger("console")
		p, err := setupPortal(apiURL, logger)
		if err != nil {
			return err
		}

		view, err := p.SubmissionsView(cmd.Context())
		if err != nil {
			return err
		}
		if sortColumn != "" {
			view.SortBy(sortColumn)
			if descending {
				view.SortBy(sortColumn)
			}
		}

		snap := view.Materialize()
		if snap.Empty {
			fmt.Println("There are no insurance applications submitted yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for i, column := range snap.Columns {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, column.Label)
		}
		fmt.Fprintln(w)
		for _, row := range snap.Rows {
			for i, column := range snap.Columns {
				if i > 0 {
					fmt.Fprint(w, "\t")
				}
				if value, ok := row.Get(column.ID); ok && value != nil {
					fmt.Fprintf(w, "%v", value)
				}
			}
			fmt.Fprintln(w)
		}
		return w.Flush()
	},
}

func init() {
	submissionsCmd.Flags().String("api-url", "http://localhost:3000", "Base URL of the forms backend.")
	submissionsCmd.Flags().String("sort", "", "Column to sort by (ascending)")
	submissionsCmd.Flags().Bool("desc", false, "Sort descending (with --sort)")

	rootCmd.AddCommand(submissionsCmd)
}
