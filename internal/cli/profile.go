package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"swing-journal/internal/models"
)

// addProfileCommands adds user profile commands.
func addProfileCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "User profile",
	}

	cmd.AddCommand(newProfileShowCmd(app))
	cmd.AddCommand(newProfileSetCmd(app))

	rootCmd.AddCommand(cmd)
}

func newProfileShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the user profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			profile, err := app.Store.LoadProfile(ctx)
			if err != nil {
				output.Error("Failed to load profile: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(profile)
			}
			if profile.DisplayName == "" {
				output.Info("No profile set. Use 'journal profile set --name <name>'.")
				return nil
			}
			if profile.Avatar != "" {
				output.Printf("%s %s\n", profile.Avatar, profile.DisplayName)
			} else {
				output.Println(profile.DisplayName)
			}
			return nil
		},
	}
}

func newProfileSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the user profile",
		Example: `  journal profile set --name "Alex"
  journal profile set --name "Alex" --avatar "🚀"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			profile, err := app.Store.LoadProfile(ctx)
			if err != nil {
				output.Error("Failed to load profile: %v", err)
				return err
			}

			if cmd.Flags().Changed("name") {
				profile.DisplayName, _ = cmd.Flags().GetString("name")
			}
			if cmd.Flags().Changed("avatar") {
				profile.Avatar, _ = cmd.Flags().GetString("avatar")
			}

			if err := app.Store.SaveProfile(ctx, models.UserProfile{
				DisplayName: profile.DisplayName,
				Avatar:      profile.Avatar,
			}); err != nil {
				output.Error("Failed to save profile: %v", err)
				return err
			}

			output.Success("Profile saved")
			return nil
		},
	}

	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("avatar", "", "avatar emoji or initials")

	return cmd
}
