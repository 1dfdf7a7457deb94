package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"aidbg/config"
	"aidbg/provider"
)

var (
	setAPIKey       string
	setBaseURL      string
	setModel        string
	setTemperature  float64
	setSystemPrompt string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage configuration profiles",
	Long: `Manage named profiles. A profile bundles the endpoint, API key, model,
sampling temperature and system prompt used for a conversation. The system
prompt may contain the {tools} placeholder; it is replaced with the current
tool catalog when a request is built.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		profiles, err := app.profiles.LoadAll()
		if err != nil {
			return err
		}
		active := app.profileName()

		names := make([]string, 0, len(profiles))
		for n := range profiles {
			names = append(names, n)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tMODEL\tBASE URL\tTEMP")
		for _, n := range names {
			p := profiles[n]
			marker := ""
			if n == active {
				marker = " *"
			}
			fmt.Fprintf(w, "%s%s\t%s\t%s\t%.2f\n", n, marker, p.Model, p.BaseURL, p.Temperature)
		}
		return w.Flush()
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		p, ok, err := app.profiles.Get(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("profile not found: %s", args[0])
		}

		fmt.Printf("name:         %s\n", args[0])
		fmt.Printf("base url:     %s\n", p.BaseURL)
		fmt.Printf("model:        %s\n", p.Model)
		fmt.Printf("temperature:  %.2f\n", p.Temperature)
		if p.APIKey != "" {
			fmt.Printf("api key:      set\n")
		} else {
			fmt.Printf("api key:      (none)\n")
		}
		if p.SystemPrompt != "" {
			fmt.Printf("system prompt:\n%s\n", p.SystemPrompt)
		}
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Create or update a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		name := args[0]
		p, ok, err := app.profiles.Get(name)
		if err != nil {
			return err
		}
		if !ok {
			p = config.Profile{Temperature: config.DefaultTemperature}
		}

		if cmd.Flags().Changed("api-key") {
			p.APIKey = setAPIKey
		}
		if cmd.Flags().Changed("base-url") {
			p.BaseURL = setBaseURL
		}
		if cmd.Flags().Changed("model") {
			p.Model = setModel
		}
		if cmd.Flags().Changed("temperature") {
			p.Temperature = setTemperature
		}
		if cmd.Flags().Changed("system-prompt") {
			p.SystemPrompt = setSystemPrompt
		}

		if err := app.profiles.Upsert(name, p); err != nil {
			return err
		}
		fmt.Printf("profile %s saved\n", name)
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.profiles.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("profile %s deleted\n", args[0])
		return nil
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the default profile for future sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		name := args[0]
		if _, ok, err := app.profiles.Get(name); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("profile not found: %s", name)
		}
		app.rememberProfile(name)
		fmt.Printf("profile: %s\n", name)
		return nil
	},
}

var profilePingCmd = &cobra.Command{
	Use:   "ping <name>",
	Short: "Check that a profile's endpoint and credentials work",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		p, ok, err := app.profiles.Get(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("profile not found: %s", args[0])
		}

		prov, err := provider.NewOpenAIProvider(p.BaseURL, p.APIKey, p.Model, p.Temperature)
		if err != nil {
			return err
		}
		if err := prov.Ping(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	},
}

func init() {
	profileSetCmd.Flags().StringVar(&setAPIKey, "api-key", "", "API key for the endpoint")
	profileSetCmd.Flags().StringVar(&setBaseURL, "base-url", "", "OpenAI-compatible endpoint base URL")
	profileSetCmd.Flags().StringVar(&setModel, "model", "", "Model name")
	profileSetCmd.Flags().Float64Var(&setTemperature, "temperature", config.DefaultTemperature, "Sampling temperature")
	profileSetCmd.Flags().StringVar(&setSystemPrompt, "system-prompt", "", "System prompt template ({tools} is substituted)")

	profileCmd.AddCommand(profileListCmd, profileShowCmd, profileSetCmd, profileDeleteCmd, profileUseCmd, profilePingCmd)
	rootCmd.AddCommand(profileCmd)
}
