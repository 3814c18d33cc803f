package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/resumeflow/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit configuration",
	Long: `Shows or edits configuration keys.

Configuration merges, highest priority first: command flags, RESUMEFLOW_*
environment variables, the nearest .resumeflow.yaml, ~/.config/resumeflow.yaml,
and built-in defaults.

Run without a subcommand to list every key with its value and source.`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one resolved value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write a value to the config file",
	Long: `Writes a key to ~/.config/resumeflow.yaml, or with --local to the
.resumeflow.yaml in the current directory.

Config files never hold API keys; set api_key_env to the name of the
environment variable holding yours.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configSetLocal bool

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every key with its value and source",
	RunE:  runConfigList,
}

func init() {
	configSetCmd.Flags().BoolVar(&configSetLocal, "local", false, "Write to .resumeflow.yaml here instead of the global config")

	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !validConfigKey(key) {
		return fmt.Errorf("unknown config key %q; run 'resumeflow config list' for the full set", key)
	}

	resolved := config.NewResolver().ResolveWithFlags(flagOverrides())
	value, source := resolved.GetWithSource(key)
	if value == "" {
		fmt.Fprintln(os.Stdout, "(not set)")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%s\t(%s)\n", value, source)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if configSetLocal {
		if err := config.SaveLocal(".", key, value); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Set %s = %s in %s\n", key, value, config.LocalConfigName)
		return nil
	}

	if err := config.SaveGlobal(key, value); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Set %s = %s\n", key, value)
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	resolver := config.NewResolver()
	resolved := resolver.ResolveWithFlags(flagOverrides())

	if resolver.LocalPath() != "" {
		fmt.Fprintf(os.Stdout, "Local config:  %s\n", resolver.LocalPath())
	}
	if resolver.GlobalPath() != "" {
		fmt.Fprintf(os.Stdout, "Global config: %s\n", resolver.GlobalPath())
	}
	fmt.Fprintln(os.Stdout)

	resolved.Dump(os.Stdout)
	return nil
}

func validConfigKey(key string) bool {
	for _, k := range config.ValidKeys() {
		if k == key {
			return true
		}
	}
	return false
}
