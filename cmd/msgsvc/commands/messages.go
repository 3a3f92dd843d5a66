package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mrled/suns/msgsvc/internal/model"
	"github.com/mrled/suns/msgsvc/internal/presenter"
)

func newMessagesCmd() *cobra.Command {
	var flags PersistenceFlags

	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"msg"},
		Short:   "Create, read, update and delete messages directly in storage",
		GroupID: "data",
	}
	addPersistenceFlags(cmd, &flags)

	cmd.AddCommand(
		newCreateCmd(&flags),
		newGetCmd(&flags),
		newListCmd(&flags),
		newUpdateCmd(&flags),
		newDeleteCmd(&flags),
		newShowCmd(&flags),
	)
	return cmd
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newCreateCmd(flags *PersistenceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "create <content>",
		Short: "Create a message",
		Example: `  msgsvc messages create "Was it a car or a cat I saw"
  msgsvc messages create racecar --file ./messages.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, closeFn, err := openService(ctx, cmd, flags)
			if err != nil {
				return err
			}
			defer closeFn()

			msg, err := svc.Create(ctx, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), presenter.MessageResponse{Message: presenter.Message(msg)})
		},
	}
}

func newGetCmd(flags *PersistenceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one message as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, closeFn, err := openService(ctx, cmd, flags)
			if err != nil {
				return err
			}
			defer closeFn()

			msg, err := svc.Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("message %s: %w", args[0], err)
			}
			return writeJSON(cmd.OutOrStdout(), presenter.MessageResponse{Message: presenter.Message(msg)})
		},
	}
}

func newListCmd(flags *PersistenceFlags) *cobra.Command {
	var opts struct {
		Page   int
		Limit  int
		Output string
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of messages in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Output != "table" && opts.Output != "json" {
				return &UsageError{fmt.Errorf("invalid output format %q: use table or json", opts.Output)}
			}

			ctx := cmd.Context()
			svc, closeFn, err := openService(ctx, cmd, flags)
			if err != nil {
				return err
			}
			defer closeFn()

			page, err := svc.List(ctx, opts.Page, opts.Limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.Output == "json" {
				return writeJSON(out, presenter.List(page, func(n int) string {
					return fmt.Sprintf("msgsvc messages list --page %d --limit %d", n, page.Size)
				}))
			}

			renderTable(out, page.Items, time.Now())
			fmt.Fprintf(out, "Page %d (%d per page), %d message(s) in total\n", page.Number, page.Size, page.Total)
			if page.HasNext {
				fmt.Fprintf(out, "Next: --page %d\n", page.NextNum)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Page, "page", "p", 1, "Page number, starting at 1")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 0, "Messages per page (default MESSAGES_PER_PAGE)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "table", "Output format: table or json")
	return cmd
}

func newUpdateCmd(flags *PersistenceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <content>",
		Short: "Replace the content of a message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, closeFn, err := openService(ctx, cmd, flags)
			if err != nil {
				return err
			}
			defer closeFn()

			msg, err := svc.Update(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("message %s: %w", args[0], err)
			}
			return writeJSON(cmd.OutOrStdout(), presenter.MessageResponse{Message: presenter.Message(msg)})
		},
	}
}

func newDeleteCmd(flags *PersistenceFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id> [id...]",
		Aliases: []string{"rm"},
		Short:   "Delete messages",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, closeFn, err := openService(ctx, cmd, flags)
			if err != nil {
				return err
			}
			defer closeFn()

			for _, id := range args {
				if err := svc.Delete(ctx, id); err != nil {
					return fmt.Errorf("message %s: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			}
			return nil
		},
	}
}

// renderTable prints messages as a table with relative timestamps
func renderTable(w io.Writer, msgs []*model.Message, now time.Time) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Content", "Palindrome", "Length", "Created", "Modified"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, msg := range msgs {
		table.Append([]string{
			msg.ID,
			truncateString(msg.Content, 40),
			strconv.FormatBool(msg.Properties.Palindrome),
			strconv.Itoa(msg.Properties.Length),
			presenter.FormatTimeSinceCompact(msg.DateCreated, now),
			presenter.FormatTimeSinceCompact(msg.DateModified, now),
		})
	}
	table.Render()
}

// truncateString truncates a string to maxLen characters with an ellipsis
func truncateString(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
