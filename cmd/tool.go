package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"aidbg/tools"
)

var (
	toolExample string
	toolScript  string
	toolFile    string
)

var toolCmd = &cobra.Command{
	Use:   "tool",
	Short: "Manage the tool registry",
	Long: `Manage the scripts the assistant can invoke.

A tool is a script that declares a function with the tool's name. When the
assistant emits <tool>name args</tool>, the script is wrapped, written to a
temporary file, executed by the configured interpreter and deleted again;
the captured output is spliced into the reply.`,
}

var toolListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		defs, err := app.registry.LoadAll()
		if err != nil {
			return err
		}

		names := make([]string, 0, len(defs))
		for n := range defs {
			names = append(names, n)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tEXAMPLE")
		for _, n := range names {
			fmt.Fprintf(w, "%s\t%s\n", n, defs[n].Example)
		}
		return w.Flush()
	},
}

var toolShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a tool's script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		def, err := app.registry.Resolve(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("example: %s\n\n%s\n", def.Example, def.Script)
		return nil
	},
}

var toolAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register or update a tool",
	Long: `Register a tool. The script must declare a function whose name matches
the tool name exactly; --file reads the script from a path, --script takes
it inline.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		name := args[0]
		script := toolScript
		if toolFile != "" {
			data, err := os.ReadFile(toolFile)
			if err != nil {
				return fmt.Errorf("failed to read script: %w", err)
			}
			script = string(data)
		}
		if script == "" {
			return fmt.Errorf("a script is required (--script or --file)")
		}
		if !tools.DeclaresFunction(script, name) {
			return fmt.Errorf("script does not declare a function named %q", name)
		}

		example := toolExample
		if example == "" {
			example = fmt.Sprintf("<tool>%s</tool>", name)
		}

		if err := app.registry.Upsert(name, tools.Definition{Example: example, Script: script}); err != nil {
			return err
		}
		fmt.Printf("tool %s saved\n", name)
		return nil
	},
}

var toolDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a tool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.registry.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("tool %s deleted\n", args[0])
		return nil
	},
}

var toolRunCmd = &cobra.Command{
	Use:   "run <name> [args...]",
	Short: "Run a tool directly",
	Long:  `Run a registered tool outside a conversation, for testing.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		executor := tools.NewExecutor(app.registry, app.interpreter(), app.cfg.ToolTimeout, app.log)
		out, err := executor.Run(context.Background(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	toolAddCmd.Flags().StringVar(&toolExample, "example", "", "Usage example shown to the model (default: <tool>name</tool>)")
	toolAddCmd.Flags().StringVar(&toolScript, "script", "", "Inline script body")
	toolAddCmd.Flags().StringVar(&toolFile, "file", "", "Path to a file holding the script body")

	toolCmd.AddCommand(toolListCmd, toolShowCmd, toolAddCmd, toolDeleteCmd, toolRunCmd)
	rootCmd.AddCommand(toolCmd)
}
