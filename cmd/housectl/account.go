package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/currently-core/internal/client"
)

func (a *app) registerCmd() *cobra.Command {
	var creds client.Credentials
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			if err := a.client().Register(ctx, creds); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Registered %s. Run housectl login to sign in.\n", creds.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "email address")
	cmd.Flags().StringVar(&creds.Username, "username", "", "display name (defaults to the email's local part)")
	cmd.Flags().StringVar(&creds.Password, "password", "", "password, at least 8 characters")
	cmd.MarkFlagRequired("email")    //nolint:errcheck // flag exists
	cmd.MarkFlagRequired("password") //nolint:errcheck // flag exists
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var creds client.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			sess, err := a.client().Login(ctx, creds)
			if err != nil {
				return err
			}
			if err := a.tokens().Save(sess.Token); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s until %s.\n", creds.Email, sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "email address")
	cmd.Flags().StringVar(&creds.Password, "password", "", "password")
	cmd.MarkFlagRequired("email")    //nolint:errcheck // flag exists
	cmd.MarkFlagRequired("password") //nolint:errcheck // flag exists
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		RunE: func(*cobra.Command, []string) error {
			if err := a.tokens().Clear(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}
