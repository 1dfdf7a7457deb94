package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aidbg/chat"
	"aidbg/model"
	"aidbg/storage"
	"aidbg/tools"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start a line-oriented conversation with the active profile's model.

Input lines are sent as user messages. Lines starting with "/" are local
commands:

  /profile [name]   show or switch the active profile
  /quick [name]     list snippets, or send the named snippet
  /save <name>      archive the conversation under a name
  /clear            drop the conversation, keeping the system prompt
  /quit             exit

Press Ctrl-C while a reply is streaming to cancel the turn; text received
so far is kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()
		return runChat(app)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(app *app) error {
	executor := tools.NewExecutor(app.registry, app.interpreter(), app.cfg.ToolTimeout, app.log)

	sink := model.EventSinkFunc(func(ev model.Event) {
		switch e := ev.(type) {
		case model.RenderEvent:
			fmt.Print(e.Text)
		case model.ToolInvokedEvent:
			if e.Failed {
				fmt.Print(chat.ErrorHeader + e.Result + "\n")
			} else {
				fmt.Print(chat.ResultHeader + e.Result + "\n")
			}
		case model.TurnEndedEvent:
			if e.Err != nil {
				fmt.Fprintf(os.Stderr, "\nerror: %v\n", e.Err)
			} else {
				fmt.Println()
			}
		}
	})

	orch := chat.New(chat.Options{
		Profiles:       app.profiles,
		Registry:       app.registry,
		Runner:         executor,
		Sink:           sink,
		ProfileName:    app.profileName(),
		RequestTimeout: app.cfg.RequestTimeout,
		Logger:         app.log,
	})

	// Ctrl-C cancels the in-flight turn instead of killing the process.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)
	go func() {
		for range interrupt {
			orch.Cancel()
		}
	}()

	fmt.Printf("profile: %s (Ctrl-D or /quit to exit)\n", orch.ProfileName())

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := handleCommand(app, orch, line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
			if quit {
				return nil
			}
			continue
		}

		if err := send(orch, line); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func send(orch *chat.Orchestrator, text string) error {
	if err := orch.Send(text); err != nil {
		return err
	}
	orch.Wait()
	return nil
}

func handleCommand(app *app, orch *chat.Orchestrator, line string) (quit bool, err error) {
	fields := strings.SplitN(line, " ", 2)
	name := fields[0]
	arg := ""
	if len(fields) == 2 {
		arg = strings.TrimSpace(fields[1])
	}

	switch name {
	case "/quit", "/exit":
		return true, nil

	case "/clear":
		return false, orch.Clear()

	case "/profile":
		if arg == "" {
			fmt.Printf("profile: %s\n", orch.ProfileName())
			return false, nil
		}
		if _, ok, err := app.profiles.Get(arg); err != nil {
			return false, err
		} else if !ok {
			return false, fmt.Errorf("profile not found: %s", arg)
		}
		orch.SetProfile(arg)
		app.rememberProfile(arg)
		fmt.Printf("profile: %s\n", arg)
		return false, nil

	case "/quick":
		if arg == "" {
			return false, listQuick(app)
		}
		snippets, err := app.quick.LoadAll()
		if err != nil {
			return false, err
		}
		item, ok := snippets[arg]
		if !ok {
			return false, fmt.Errorf("snippet not found: %s", arg)
		}
		return false, send(orch, item.Content)

	case "/save":
		if arg == "" {
			return false, fmt.Errorf("usage: /save <name>")
		}
		return false, archiveTranscript(app, orch, arg)

	default:
		return false, fmt.Errorf("unknown command: %s", name)
	}
}

func listQuick(app *app) error {
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
		fmt.Printf("  %s\n", n)
	}
	return nil
}

func archiveTranscript(app *app, orch *chat.Orchestrator, name string) error {
	archive, err := app.openArchive()
	if err != nil {
		return err
	}
	defer archive.Close()

	profile, ok, err := app.profiles.Get(orch.ProfileName())
	if err != nil {
		return err
	}
	modelName := ""
	if ok {
		modelName = profile.Model
	}

	snapshot := &storage.ArchivedTranscript{
		Name:      name,
		Model:     modelName,
		CreatedAt: time.Now(),
		Messages:  orch.Transcript().Messages(),
	}
	if err := archive.Save(snapshot); err != nil {
		return err
	}
	app.log.Info("transcript archived", zap.String("id", snapshot.ID), zap.String("name", name))
	fmt.Printf("saved as %s\n", snapshot.ID)
	return nil
}
