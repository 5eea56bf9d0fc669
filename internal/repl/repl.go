package repl

import (
	"context"
	"errors"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"showsearch/internal/app"
)

// Run starts the interactive session and blocks until the user quits or ctx
// is cancelled. Cancellation is a normal exit.
func Run(ctx context.Context, application *app.App) error {
	log.Printf("session started (base %s)", application.Config().BaseURL)
	program := tea.NewProgram(newModel(ctx, application), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	if err != nil {
		log.Printf("session ended: %v", err)
		return err
	}
	log.Printf("session ended, last query %q", application.Query())
	return nil
}
