package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sopgov",
	Short: "governed SOP document management tool",
	Example: `sopgov create -t <title> --template <template>
sopgov get -d <doc-id>
sopgov edit -d <doc-id> -s <section-id> -c <content>
sopgov generate -d <doc-id> -s <section-id>
sopgov review -d <doc-id>
sopgov approve -d <doc-id>
sopgov versions -d <doc-id>
sopgov restore -d <doc-id> -v <version>`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(dbCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
