// Package cli renders catalog queries for the terminal.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/marathon/internal/domain/catalog"
	"github.com/okian/marathon/pkg/logger"
)

const (
	ruleWidth = 80

	// CommandList shows the menu without flagging the input as invalid.
	CommandList = "list"
)

// operations lists the mutations served over HTTP.
var operations = []string{
	"insert - Add new runner (POST /insert_runner)",
	"update - Update runner fields (POST /update_runner)",
	"delete - Delete runner (POST /delete_runner)",
	"list   - Show this menu",
}

// QueryRunner is the part of the service the CLI needs.
type QueryRunner interface {
	Queries() []catalog.Query
	RunQuery(ctx context.Context, n int) (catalog.Result, error)
}

// SetupLogging initializes the global logger on stderr so stdout carries
// only query output.
func SetupLogging(format, level string) error {
	if err := logger.Init(logger.WithFormat(format), logger.WithOutput(os.Stderr)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := logger.SetLevelString(level); err != nil {
		return fmt.Errorf("failed to set log level: %w", err)
	}
	return nil
}

// Dispatch runs the command named by args[0]. A missing or unknown command
// prints the menu and is not an error; only store failures are returned.
func Dispatch(ctx context.Context, svc QueryRunner, out io.Writer, program string, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(out, "\nUsage: %s <query_number|operation>\n", program)
		Menu(out, svc.Queries())
		return nil
	}

	command := strings.ToLower(args[0])
	if command == CommandList {
		Menu(out, svc.Queries())
		return nil
	}

	q, err := catalog.Parse(command)
	if errors.Is(err, catalog.ErrUnknownQuery) {
		fmt.Fprintln(out, "\nInvalid command")
		Menu(out, svc.Queries())
		return nil
	}
	if err != nil {
		return err
	}

	res, err := svc.RunQuery(ctx, q.Number)
	if err != nil {
		return fmt.Errorf("cli.dispatch: %w", err)
	}
	return PrintResult(out, res)
}

// PrintResult writes res under a banner with its title, as indented JSON
// followed by a result count.
func PrintResult(out io.Writer, res catalog.Result) error {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(out, "\n%s\n  %s\n%s\n", rule, res.Title, rule)

	if res.Count == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}

	body, err := json.MarshalIndent(res.Rows, "", "  ")
	if err != nil {
		return fmt.Errorf("cli.print: %w", err)
	}
	fmt.Fprintf(out, "%s\n\nTotal Results: %d\n%s\n\n", body, res.Count, rule)
	return nil
}

// Menu prints every query description followed by the operations.
func Menu(out io.Writer, queries []catalog.Query) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(out, "\n%s\n  AVAILABLE QUERIES\n%s\n", rule, rule)
	for _, q := range queries {
		fmt.Fprintf(out, "  %d. %s\n", q.Number, q.Description)
	}
	fmt.Fprintln(out, "  ")
	fmt.Fprintln(out, "  OPERATIONS:")
	for _, op := range operations {
		fmt.Fprintf(out, "  %s\n", op)
	}
	fmt.Fprintf(out, "%s\n\n", rule)
}
