package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// renderCmd renders a single form as HTML without starting a server.
var renderCmd = &cobra.Command{
	Use:   "render form-id",
	Short: "Render a form to HTML",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		apiURL, _ := cmd.Flags().GetString("api-url")
		rendererName, _ := cmd.Flags().GetString("renderer")
		output, _ := cmd.Flags().GetString("output")
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
		page, err := p.RenderForm(cmd.Context(), sess, rendererName)
		if err != nil {
			return err
		}

		if output != "" {
			if err := os.WriteFile(output, page, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("Form written to %s\n", output)
			return nil
		}
		fmt.Println(string(page))
		return nil
	},
}

func init() {
	renderCmd.Flags().String("api-url", "http://localhost:3000", "Base URL of the forms backend.")
	renderCmd.Flags().String("renderer", "", "Renderer to use (default renderer if empty)")
	renderCmd.Flags().StringP("output", "o", "", "Output file (stdout if empty)")

	rootCmd.AddCommand(renderCmd)
}
