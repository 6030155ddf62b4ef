package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petasbytes/moviebot/internal/display"
	"github.com/petasbytes/moviebot/internal/render"
)

var chatSession string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat in the terminal",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatSession, "session", "default", "session id; with a durable history backend the conversation resumes")
}

func runChat(cmd *cobra.Command, _ []string) error {
	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	// Set up graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sess, err := a.openSession(ctx, chatSession)
	if err != nil {
		return err
	}
	defer a.sessions.Close(sess.ID)

	out := cmd.OutOrStdout()
	r := render.New()
	fmt.Fprintf(out, "Chat about movies (Ctrl-C to quit). Session %s, %d messages of history.\n", sess.ID, sess.Store.Len())

	// stdin reader goroutine -> lines into channel
	scanner := bufio.NewScanner(cmd.InOrStdin())
	inputCh := make(chan string)
	go func() {
		defer close(inputCh)
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
	}()

	for {
		fmt.Fprint(out, r.Styles.Speaker.Render("You:")+" ")
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nExiting...")
			return nil
		case line, ok = <-inputCh:
			if !ok {
				return scanner.Err()
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		// Tool loading renders are printed as they come; the turn's final render follows.
		sink := func(rec display.Record) {
			if rec.Display.Kind == display.KindLoading && rec.Display.Text != "" {
				fmt.Fprintln(out, r.Record(rec))
			}
		}
		rec, err := sess.SendMessage(ctx, line, sink)
		if err != nil {
			a.log.Error().Err(err).Msg("turn failed")
			fmt.Fprintln(out, r.Record(display.Record{Role: display.RoleAssistant, Display: display.Error("Something went wrong. Please try again.")}))
			continue
		}
		fmt.Fprintln(out, r.Record(rec))
	}
}
