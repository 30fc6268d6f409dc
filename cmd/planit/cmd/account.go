package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/planit-ai/planit/internal/upload"
	"github.com/planit-ai/planit/internal/validate"
	"github.com/planit-ai/planit/pkg/client"
)

var errWrongCredentials = errors.New("wrong login id or password")

var (
	loginID        string
	signupNickname string
	signupAvatar   string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with your login id and password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		id, err := p.orAsk(loginID, "login id")
		if err != nil {
			return err
		}
		pw, err := p.secret("password")
		if err != nil {
			return err
		}
		return runLogin(cmd.Context(), e, cmd.OutOrStdout(), id, pw)
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a Planit account",
	Long: `Create a Planit account. Login ids are 4-20 lowercase letters, digits
or underscores. Passwords are 8-20 characters with upper and lower case
letters, a digit and a symbol.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		var form validate.SignupForm
		if form.LoginID, err = p.orAsk(loginID, "login id"); err != nil {
			return err
		}
		if form.Password, err = p.secret("password"); err != nil {
			return err
		}
		if form.PasswordConfirm, err = p.secret("confirm password"); err != nil {
			return err
		}
		if form.Nickname, err = p.orAsk(signupNickname, "nickname"); err != nil {
			return err
		}
		return runSignup(cmd.Context(), e, cmd.OutOrStdout(), form, signupAvatar)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		runLogout(e, cmd.OutOrStdout())
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		return runWhoami(cmd.Context(), e, cmd.OutOrStdout())
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginID, "id", "", "login id (prompted when empty)")
	signupCmd.Flags().StringVar(&loginID, "id", "", "login id (prompted when empty)")
	signupCmd.Flags().StringVar(&signupNickname, "nickname", "", "nickname (prompted when empty)")
	signupCmd.Flags().StringVar(&signupAvatar, "avatar", "", "profile image file (jpg, png or webp, up to 5 MiB)")

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)
}

func runLogin(ctx context.Context, e *env, out io.Writer, id, pw string) error {
	id = strings.TrimSpace(id)
	if err := e.validator.Login(validate.LoginForm{LoginID: id, Password: pw}); err != nil {
		return err
	}
	res, err := e.client.Login(ctx, id, pw)
	if err != nil {
		if client.IsStatus(err, http.StatusUnauthorized) || client.IsStatus(err, http.StatusNotFound) {
			return errWrongCredentials
		}
		return fmt.Errorf("login: %w", err)
	}
	profile := res.Profile()
	e.store.SetAuth(&profile, res.AccessToken)
	e.logger.Debug("signed in", "user_id", profile.ID)
	fmt.Fprintf(out, "Signed in as %s (@%s)\n", profile.Nickname, profile.LoginID)
	return nil
}

func runSignup(ctx context.Context, e *env, out io.Writer, form validate.SignupForm, avatarPath string) error {
	form.LoginID = strings.TrimSpace(form.LoginID)
	form.Nickname = strings.TrimSpace(form.Nickname)
	if err := e.validator.Signup(form); err != nil {
		return err
	}

	if a, err := e.client.CheckLoginID(ctx, form.LoginID); err != nil {
		return fmt.Errorf("check login id: %w", err)
	} else if !a.Available {
		return fmt.Errorf("login id %q is already taken", form.LoginID)
	}
	if a, err := e.client.CheckNickname(ctx, form.Nickname); err != nil {
		return fmt.Errorf("check nickname: %w", err)
	} else if !a.Available {
		return fmt.Errorf("nickname %q is already taken", form.Nickname)
	}

	var key string
	if avatarPath != "" {
		k, err := upload.File(ctx, e.validator, e.client, e.client.SignupProfilePresignedURL, avatarPath)
		if err != nil {
			return err
		}
		key = k
	}

	_, err := e.client.Signup(ctx, client.SignupRequest{
		LoginID:         form.LoginID,
		Password:        form.Password,
		PasswordConfirm: form.PasswordConfirm,
		Nickname:        form.Nickname,
		ProfileImageKey: key,
	})
	if err != nil {
		if key != "" {
			if derr := e.client.DeleteSignupProfileImage(ctx, key); derr != nil {
				e.logger.Warn("discard signup image", "key", key, "err", derr)
			}
		}
		return fmt.Errorf("signup: %w", err)
	}
	fmt.Fprintf(out, "Account %s created. Run `planit login --id %s` to sign in.\n", form.LoginID, form.LoginID)
	return nil
}

func runLogout(e *env, out io.Writer) {
	if !e.store.Snapshot().LoggedIn() {
		fmt.Fprintln(out, "Already signed out.")
		return
	}
	e.store.ClearAuth()
	fmt.Fprintln(out, "Signed out.")
}

func runWhoami(ctx context.Context, e *env, out io.Writer) error {
	if err := e.requireSession(); err != nil {
		return err
	}
	page, err := e.client.GetMyPage(ctx)
	if err != nil {
		return fmt.Errorf("whoami: %w", err)
	}
	e.store.SetUser(page.Profile())

	fmt.Fprintf(out, "%s (@%s)\n", page.Nickname, page.LoginID)
	fmt.Fprintf(out, "  avatar:   %s\n", e.images.Avatar(page.ProfileImageURL))
	fmt.Fprintf(out, "  activity: %d posts · %d comments · %d likes\n", page.PostCount, page.CommentCount, page.LikeCount)
	if len(page.PlanPreviews) > 0 {
		fmt.Fprintln(out, "  plans:")
		for _, pl := range page.PlanPreviews {
			fmt.Fprintf(out, "    #%d %s [%s]\n", pl.PlanID, pl.Title, strings.ToLower(pl.Status))
		}
	}
	return nil
}
