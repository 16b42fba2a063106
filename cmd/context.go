package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	sopgov "github.com/procdoc/sopgov"
	"github.com/procdoc/sopgov/internal/workflow"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configFileName = "sopgov"
)

var contextCommand = &cobra.Command{
	Use:   "context",
	Short: "context commands",
}

func init() {
	rootCmd.AddCommand(contextCommand)
	contextCommand.AddCommand(setContextCommand())
	contextCommand.AddCommand(currentContextCommand())
	contextCommand.AddCommand(resetContextCommand())
}

// Context holds the acting user, role and server the CLI talks to.
type Context struct {
	Actor  string `json:"actor"`
	Role   string `json:"role"`
	Server string `json:"server"`
}

// saves the context info to the config file in ./.tmp
func setContextCommand() *cobra.Command {
	var actor string
	var role string
	var serverAddr string
	command := &cobra.Command{
		Use:   "set",
		Short: "set context",
		Run: func(cmd *cobra.Command, args []string) {
			if actor == "" || role == "" {
				color.Red(`missing: --actor and --role`)
				return
			}

			if _, err := workflow.ParseRole(role); err != nil {
				color.Red("%v", err)
				return
			}

			if serverAddr == "" {
				serverAddr = "http://localhost:4030"
			}

			writeContext(Context{
				Actor:  actor,
				Role:   role,
				Server: serverAddr,
			})
			fmt.Println("context saved")
		},
	}

	command.Flags().StringVarP(&actor, "actor", "a", "", "acting user")
	command.Flags().StringVarP(&role, "role", "r", "", "role: doer, reviewer, approver or admin")
	command.Flags().StringVarP(&serverAddr, "server", "u", "", "server base url")

	return command
}

func currentContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "current",
		Short: "current context",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := readContext()
			fmt.Printf("actor: %s\nrole: %s\nserver: %s\n", ctx.Actor, ctx.Role, ctx.Server)
		},
	}

	return command
}

func resetContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "reset",
		Short: "reset context",
		Run: func(cmd *cobra.Command, args []string) {
			writeContext(Context{})
			fmt.Println("context reset")
		},
	}

	return command
}

func writeContext(context Context) {
	if err := os.MkdirAll("./.tmp", os.ModePerm); err != nil {
		fmt.Println("error creating config dir: ", err)
		return
	}

	viper.SetConfigName(configFileName)
	viper.AddConfigPath("./.tmp")
	viper.SetConfigType("yml")
	viper.Set("context", context)

	if err := viper.WriteConfigAs("./.tmp/" + configFileName + ".yml"); err != nil {
		fmt.Println("error writing config file: ", err)
	}
}

func readContext() Context {
	var ctx Context

	// create file if it doesn't exist
	if _, err := os.Stat("./.tmp/" + configFileName + ".yml"); os.IsNotExist(err) {
		writeContext(Context{})
	}

	viper.SetConfigName(configFileName)
	viper.AddConfigPath("./.tmp")
	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("error reading config file: ", err)
	}

	if err := viper.UnmarshalKey("context", &ctx); err != nil {
		fmt.Println("error unmarshalling config file: ", err)
	}

	return ctx
}

// apiClient builds a client from the saved context, falling back to the
// doer role when none is set.
func apiClient() *sopgov.Client {
	cfg := readContext()
	if cfg.Server == "" {
		cfg.Server = "http://localhost:4030"
	}
	if cfg.Actor == "" {
		cfg.Actor = "anonymous"
	}

	role, err := workflow.ParseRole(cfg.Role)
	if err != nil {
		role = workflow.RoleAuthor
	}

	return sopgov.NewClient(cfg.Server, workflow.Actor{User: cfg.Actor, Role: role})
}
