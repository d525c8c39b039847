package cmd

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/leveling"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/store"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/ui/theme"
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications <user-id>",
	Short: "List a user's level mismatch notifications",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unread, _ := cmd.Flags().GetBool("unread")
		limit, _ := cmd.Flags().GetInt("limit")

		d, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		list, err := d.Service.Notifications(cmd.Context(), args[0], unread, limit)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, list)
		}
		if len(list) == 0 {
			lipgloss.Fprintln(cmd.OutOrStdout(), theme.Hint.Render("No notifications."))
			return nil
		}
		t := theme.Table("ID", "When", "Habit", "Kind", "Gap", "Severity", "Read")
		for _, n := range list {
			t.Row(strconv.Itoa(n.ID), n.Timestamp.Local().Format("2006-01-02 15:04"), n.HabitID,
				kindLabel(n.Kind), strconv.Itoa(n.LevelGap),
				theme.SeverityStyle(leveling.Severity(n.Severity)).Render(n.Severity),
				ackString(&n.Read))
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), t)
		return nil
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <notification-id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		d, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.Service.MarkNotificationRead(cmd.Context(), id); err != nil {
			return err
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), theme.Good.Render("Marked as read."))
		return nil
	},
}

func kindLabel(kind string) string {
	switch kind {
	case store.NotificationLevelMismatch:
		return "mismatch"
	case store.NotificationResolved:
		return "resolved"
	default:
		return kind
	}
}

func init() {
	notificationsCmd.Flags().BoolP("unread", "u", false, "Only unread notifications")
	notificationsCmd.Flags().IntP("limit", "n", 20, "Number of notifications to show")

	notificationsCmd.AddCommand(notificationsReadCmd)
}
