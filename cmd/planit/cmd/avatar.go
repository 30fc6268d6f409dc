package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/planit-ai/planit/internal/upload"
)

var avatarCmd = &cobra.Command{
	Use:   "avatar",
	Short: "Change or remove your profile image",
}

var avatarSetCmd = &cobra.Command{
	Use:   "set <file>",
	Short: "Upload a profile image (jpg, png or webp, up to 5 MiB)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		return runAvatarSet(cmd.Context(), e, cmd.OutOrStdout(), args[0])
	},
}

var avatarRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Go back to the default profile image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		return runAvatarRemove(cmd.Context(), e, cmd.OutOrStdout())
	},
}

func init() {
	avatarCmd.AddCommand(avatarSetCmd, avatarRemoveCmd)
	rootCmd.AddCommand(avatarCmd)
}

func runAvatarSet(ctx context.Context, e *env, out io.Writer, path string) error {
	if err := e.requireSession(); err != nil {
		return err
	}
	key, err := upload.File(ctx, e.validator, e.client, e.client.ProfilePresignedURL, path)
	if err != nil {
		return err
	}
	p, err := e.client.SaveProfileImageKey(ctx, key)
	if err != nil {
		return fmt.Errorf("avatar set: %w", err)
	}
	e.store.SetUser(p.Profile())
	fmt.Fprintf(out, "Profile image updated: %s\n", e.images.Avatar(p.ProfileImageURL))
	return nil
}

func runAvatarRemove(ctx context.Context, e *env, out io.Writer) error {
	if err := e.requireSession(); err != nil {
		return err
	}
	p, err := e.client.DeleteProfileImage(ctx)
	if err != nil {
		return fmt.Errorf("avatar remove: %w", err)
	}
	e.store.SetUser(p.Profile())
	fmt.Fprintln(out, "Profile image removed.")
	return nil
}
