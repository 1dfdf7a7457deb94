package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"aidbg/storage"
)

var quickCmd = &cobra.Command{
	Use:   "quick",
	Short: "Manage quick-content snippets",
	Long: `Manage named canned prompts. In a chat session, /quick <name> sends the
snippet as a user message.`,
}

var quickListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snippets",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		snippets, err := app.quick.LoadAll()
		if err != nil {
			return err
		}
		names := make([]string, 0, len(snippets))
		for n := range snippets {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

var quickShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a snippet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		snippets, err := app.quick.LoadAll()
		if err != nil {
			return err
		}
		item, ok := snippets[args[0]]
		if !ok {
			return fmt.Errorf("snippet not found: %s", args[0])
		}
		fmt.Println(item.Content)
		return nil
	},
}

var quickAddCmd = &cobra.Command{
	Use:   "add <name> <content>",
	Short: "Create or update a snippet",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.quick.Upsert(args[0], storage.QuickContent{Content: args[1]}); err != nil {
			return err
		}
		fmt.Printf("snippet %s saved\n", args[0])
		return nil
	},
}

var quickDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a snippet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.quick.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("snippet %s deleted\n", args[0])
		return nil
	},
}

func init() {
	quickCmd.AddCommand(quickListCmd, quickShowCmd, quickAddCmd, quickDeleteCmd)
	rootCmd.AddCommand(quickCmd)
}
