package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coverleaf/go-portal/pkg/renderers/tui"
)

// fillCmd walks a form interactively in the terminal and submits it.
var fillCmd = &cobra.Command{
	Use:   "fill form-id",
	Short: "Fill out and submit a form interactively",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		apiURL, _ := cmd.Flags().GetString("api-url")
		if !cmd.Flags().Changed("api-url") && config.APIURL != "" {
			apiURL = config.APIURL
		}

		logger := setupLogger("console")
		p, err := setupPortal(apiURL, logger)
		if err != nil {
			return err
		}

		sess, err := p.NewSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		defer sess.Close()

		if err := tui.NewFiller().Fill(cmd.Context(), sess); err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Println("Aborted.")
				return nil
			}
			return err
		}
		return nil
	},
}

func init() {
	fillCmd.Flags().String("api-url", "http://localhost:3000", "Base URL of the forms backend.")

	rootCmd.AddCommand(fillCmd)
}
