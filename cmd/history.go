package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"aidbg/model"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse archived transcripts",
	Long:  `Browse conversations saved with /save during a chat session.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived transcripts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		archive, err := app.openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		entries, err := archive.List()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tMODEL\tMESSAGES\tUPDATED")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				e.ID, e.Name, e.Model, e.MessageCount, e.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print an archived transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		archive, err := app.openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		saved, err := archive.Load(args[0])
		if err != nil {
			return err
		}
		if saved == nil {
			return fmt.Errorf("transcript not found: %s", args[0])
		}

		t := model.NewTranscript("")
		t.Replace(saved.Messages)
		fmt.Print(t.DisplayText())
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an archived transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		archive, err := app.openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		if err := archive.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("transcript %s deleted\n", args[0])
		return nil
	},
}

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search archived messages",
	Long:  `Case-insensitive substring search over archived user and assistant messages.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		archive, err := app.openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		matches, err := archive.Search(args[0])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tROLE\tPREVIEW")
		for _, m := range matches {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.TranscriptID, m.TranscriptName, m.Role, m.Preview)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historySearchCmd)
	rootCmd.AddCommand(historyCmd)
}
