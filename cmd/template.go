package cmd

import (
	"context"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	templateCmd.AddCommand(listTemplatesCmd())
	templateCmd.AddCommand(showTemplateCmd())

	rootCmd.AddCommand(standardsCmd())
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "template commands",
}

func listTemplatesCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "list templates",
		Run: func(cmd *cobra.Command, args []string) {
			names, err := apiClient().ListTemplates(context.Background())
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Name"})
			for _, name := range names {
				table.Append([]string{name})
			}
			table.Render()
		},
	}

	return command
}

func showTemplateCmd() *cobra.Command {
	var name string

	var required = []string{"name"}

	command := &cobra.Command{
		Use:   "show",
		Short: "show a template",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			def, err := apiClient().GetTemplate(context.Background(), name)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Section", "Type"})
			for _, s := range def.Sections {
				table.Append([]string{s.Title, s.Type})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&name, "name", "n", "", "template name (required)")

	return command
}

func standardsCmd() *cobra.Command {
	var query string

	command := &cobra.Command{
		Use:   "standards",
		Short: "search the standards database",
		Run: func(cmd *cobra.Command, args []string) {
			standards, err := apiClient().SearchStandards(context.Background(), query)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Organization", "Category", "Name"})
			for _, s := range standards {
				table.Append([]string{s.ID, s.Organization, s.Category, s.FullName})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&query, "query", "q", "", "search text")

	return command
}
