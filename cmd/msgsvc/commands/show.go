package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrled/suns/msgsvc/internal/model"
	"github.com/mrled/suns/msgsvc/internal/presenter"
)

func newShowCmd(flags *PersistenceFlags) *cobra.Command {
	var opts struct {
		Palindrome bool
		MinLength  int
		MaxLength  int
		Contains   string
		Format     string
		SortBy     string
	}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show every stored message, filtered and sorted",
		Long: `Display messages from the data store filtered by their properties.

If no filters are specified, all messages are displayed in creation order.

Examples:
  # Show all messages
  msgsvc messages show --file ./messages.json

  # Show only palindromes
  msgsvc messages show --file ./messages.json --palindrome

  # Show only messages that are not palindromes
  msgsvc messages show --file ./messages.json --palindrome=false

  # Show messages between 5 and 20 characters containing "cat"
  msgsvc messages show --sqlite ./data/app.db --min-length 5 --max-length 20 --contains cat

  # Show the most recently modified messages first, one per line
  msgsvc messages show --file ./messages.json --sort modified --format compact`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opts.Format {
			case "detailed", "compact":
			default:
				return &UsageError{fmt.Errorf("invalid format %q: use detailed or compact", opts.Format)}
			}

			ctx := cmd.Context()
			svc, closeFn, err := openService(ctx, cmd, flags)
			if err != nil {
				return err
			}
			defer closeFn()

			all, err := svc.All(ctx)
			if err != nil {
				return err
			}

			filter := model.MessageFilter{
				MinLength: opts.MinLength,
				MaxLength: opts.MaxLength,
				Contains:  opts.Contains,
			}
			if cmd.Flags().Changed("palindrome") {
				filter.Palindrome = &opts.Palindrome
			}
			filtered := model.FilterMessages(all, filter)
			model.SortMessages(filtered, opts.SortBy)

			out := cmd.OutOrStdout()
			if len(filtered) == 0 {
				fmt.Fprintln(out, "No messages found matching the specified criteria.")
				return nil
			}

			now := time.Now()
			switch opts.Format {
			case "compact":
				displayMessagesCompact(out, filtered, now)
			default:
				displayMessagesDetailed(out, filtered, now)
			}

			fmt.Fprintf(out, "\nTotal messages: %d\n", len(filtered))
			if !filter.IsEmpty() {
				fmt.Fprintln(out, "Filters applied:")
				if filter.Palindrome != nil {
					fmt.Fprintf(out, "  Palindrome: %t\n", *filter.Palindrome)
				}
				if filter.MinLength > 0 {
					fmt.Fprintf(out, "  Min length: %d\n", filter.MinLength)
				}
				if filter.MaxLength > 0 {
					fmt.Fprintf(out, "  Max length: %d\n", filter.MaxLength)
				}
				if filter.Contains != "" {
					fmt.Fprintf(out, "  Contains: %s\n", filter.Contains)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Palindrome, "palindrome", false, "Keep only palindromes, or only non-palindromes with --palindrome=false")
	cmd.Flags().IntVar(&opts.MinLength, "min-length", 0, "Minimum content length in characters")
	cmd.Flags().IntVar(&opts.MaxLength, "max-length", 0, "Maximum content length in characters")
	cmd.Flags().StringVar(&opts.Contains, "contains", "", "Keep messages containing this text (case-insensitive)")
	cmd.Flags().StringVar(&opts.Format, "format", "detailed", "Output format: detailed or compact")
	cmd.Flags().StringVar(&opts.SortBy, "sort", "", "Sort by: created, modified, length, or content")
	return cmd
}

// displayMessagesDetailed prints one block per message
func displayMessagesDetailed(w io.Writer, msgs []*model.Message, now time.Time) {
	fmt.Fprintln(w, "=== Messages ===")
	for _, msg := range msgs {
		fmt.Fprintf(w, "\nID: %s\n", msg.ID)
		fmt.Fprintf(w, "Content: %s\n", msg.Content)
		fmt.Fprintf(w, "Palindrome: %t, length: %d\n", msg.Properties.Palindrome, msg.Properties.Length)
		fmt.Fprintf(w, "Created: %s, modified: %s\n",
			presenter.FormatTimeSince(msg.DateCreated, now),
			presenter.FormatTimeSince(msg.DateModified, now))
	}
}

// displayMessagesCompact prints one line per message
func displayMessagesCompact(w io.Writer, msgs []*model.Message, now time.Time) {
	fmt.Fprintln(w, "=== Messages (Compact) ===")
	fmt.Fprintf(w, "%-38s %-42s %-5s %-6s %s\n", "ID", "Content", "Pal", "Length", "Created")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, msg := range msgs {
		pal := "no"
		if msg.Properties.Palindrome {
			pal = "yes"
		}
		fmt.Fprintf(w, "%-38s %-42s %-5s %-6d %s\n",
			msg.ID,
			truncateString(msg.Content, 40),
			pal,
			msg.Properties.Length,
			presenter.FormatTimeSinceCompact(msg.DateCreated, now))
	}
}
