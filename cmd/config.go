package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit settings",
	Long:  `Print every setting with its current value. Use "config get" and "config set" for single keys.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := app.settings.Keys()
		sort.Strings(keys)

		out := cmd.OutOrStdout()
		if jsonOutput {
			values := make(map[string]any, len(keys))
			for _, k := range keys {
				values[k], _ = app.settings.Get(k)
			}
			return printJSON(out, map[string]any{"path": app.settings.Path(), "settings": values})
		}

		fmt.Fprintf(out, "# %s\n", app.settings.Path())
		for _, k := range keys {
			v, _ := app.settings.Get(k)
			fmt.Fprintf(out, "%s = %v\n", k, v)
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting, e.g. pomodoro.focus_duration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, ok := app.settings.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown config key %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting and save the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.settings.Set(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
