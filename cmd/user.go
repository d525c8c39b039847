package cmd

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/store"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/ui/theme"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users and their overall level",
}

var userAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetInt("level")
		locale, _ := cmd.Flags().GetString("locale")

		d, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		u, err := d.Service.CreateUser(cmd.Context(), args[0], level, locale)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, u)
		}
		printUser(cmd, u)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		users, err := d.Service.ListUsers(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, users)
		}
		if len(users) == 0 {
			lipgloss.Fprintln(cmd.OutOrStdout(), theme.Hint.Render("No users yet. Create one with `vow user add <name>`."))
			return nil
		}
		t := theme.Table("ID", "Name", "Level", "XP", "Locale")
		for _, u := range users {
			t.Row(u.ID, u.Name, strconv.Itoa(u.OverallLevel), strconv.Itoa(u.TotalXP), u.Locale)
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), t)
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		u, err := d.Service.GetUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, u)
		}
		printUser(cmd, u)
		return nil
	},
}

var userSetLevelCmd = &cobra.Command{
	Use:   "set-level <user-id> <level>",
	Short: "Set a user's overall level (0-199)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid level %q: %w", args[1], err)
		}

		d, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.Service.SetUserLevel(cmd.Context(), args[0], level); err != nil {
			return err
		}
		u, err := d.Service.GetUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, u)
		}
		printUser(cmd, u)
		return nil
	},
}

func printUser(cmd *cobra.Command, u *store.User) {
	out := cmd.OutOrStdout()
	lipgloss.Fprintln(out, theme.Title.Render(u.Name))
	lipgloss.Fprintln(out, theme.Label.Render("ID"), u.ID)
	lipgloss.Fprintln(out, theme.Label.Render("Level"), u.OverallLevel)
	lipgloss.Fprintln(out, theme.Label.Render("Total XP"), theme.XP.Render(strconv.Itoa(u.TotalXP)))
	lipgloss.Fprintln(out, theme.Label.Render("Locale"), u.Locale)
}

func init() {
	userAddCmd.Flags().IntP("level", "l", 0, "Overall level (0-199)")
	userAddCmd.Flags().String("locale", "", "Message locale (en, ja)")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userSetLevelCmd)
}
