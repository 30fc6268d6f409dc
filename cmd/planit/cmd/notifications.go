package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/planit-ai/planit/internal/notify"
	"github.com/planit-ai/planit/pkg/client"
)

// notificationOpts controls the notifications listing.
type notificationOpts struct {
	unread bool
	limit  int
	markID int64
}

var notifyOpts notificationOpts

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"alerts"},
	Short:   "List your notifications",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		return runNotifications(cmd.Context(), e, cmd.OutOrStdout(), notifyOpts)
	},
}

func init() {
	f := notificationsCmd.Flags()
	f.BoolVar(&notifyOpts.unread, "unread", false, "only unread notifications")
	f.IntVar(&notifyOpts.limit, "limit", 20, "maximum number to list")
	f.Int64Var(&notifyOpts.markID, "read", 0, "mark the notification with this id as read")
	rootCmd.AddCommand(notificationsCmd)
}

func runNotifications(ctx context.Context, e *env, out io.Writer, o notificationOpts) error {
	if err := e.requireSession(); err != nil {
		return err
	}
	if o.markID != 0 {
		if err := e.client.MarkNotificationRead(ctx, o.markID); err != nil {
			return fmt.Errorf("mark read: %w", err)
		}
		fmt.Fprintf(out, "Marked %d as read.\n", o.markID)
		return nil
	}

	q := client.NotificationQuery{Size: o.limit}
	if o.unread {
		isRead := false
		q.IsRead = &isRead
	}
	page, err := e.client.ListNotifications(ctx, q)
	if err != nil {
		return fmt.Errorf("notifications: %w", err)
	}

	fmt.Fprintf(out, "%d unread\n", page.UnreadCount)
	if len(page.Notifications) == 0 {
		fmt.Fprintln(out, "Nothing here yet.")
		return nil
	}
	for _, n := range page.Notifications {
		mark := " "
		if !n.IsRead {
			mark = "●"
		}
		when := ""
		if !n.CreatedAt.IsZero() {
			when = n.CreatedAt.Local().Format("01-02 15:04")
		}
		fmt.Fprintf(out, "%s %6d  %-11s  %s\n", mark, n.NotificationID, when, notify.Describe(n))
	}
	return nil
}
