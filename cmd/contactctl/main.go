// Package main provides contactctl, a command line driver for the
// client-side submission controller.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bfluegel-contact/internal/auth"
	"bfluegel-contact/internal/bus"
	"bfluegel-contact/internal/client"
	"bfluegel-contact/internal/config"
	"bfluegel-contact/internal/form"
	"bfluegel-contact/internal/logger"
)

type fieldFlags struct {
	name    string
	email   string
	company string
	phone   string
	subject string
	message string
	privacy bool
}

func (f *fieldFlags) apply(c *client.Controller) {
	set := func(field, value string) {
		if value != "" {
			c.UpdateField(field, value)
		}
	}
	set(form.FieldName, f.name)
	set(form.FieldEmail, f.email)
	set(form.FieldCompany, f.company)
	set(form.FieldPhone, f.phone)
	set(form.FieldSubject, f.subject)
	set(form.FieldMessage, f.message)
	if f.privacy {
		c.UpdateField(form.FieldPrivacy, "true")
	}
}

func newController() (*client.Controller, *bus.Bus, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	stateDir := cfg.Client.StateDir
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, err
		}
		stateDir = filepath.Join(home, ".bfluegel-contact")
	}
	storage, err := client.NewFileStorage(stateDir)
	if err != nil {
		return nil, nil, err
	}

	events := bus.New()
	log := logger.New(cfg.Env)
	transport := client.NewHTTPTransport(cfg.Client.Endpoint)

	c, err := client.New(cfg.Client, storage, transport, events, logger.Named(log, "client"))
	if err != nil {
		return nil, nil, err
	}
	return c, events, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "contactctl",
		Short:         "Send and manage contact form submissions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSendCmd(), newValidateCmd(), newDraftCmd(), newLoginCmd(), newLogoutCmd(), newWhoamiCmd())
	return root
}

func newSessionManager() (*auth.SessionManager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	stateDir := cfg.Client.StateDir
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		stateDir = filepath.Join(home, ".bfluegel-contact")
	}
	storage, err := client.NewFileStorage(stateDir)
	if err != nil {
		return nil, err
	}
	return auth.NewSessionManager(storage, auth.DefaultSessionTimeout), nil
}

func newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with the demo credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := auth.NewStatic().Authenticate(cmd.Context(),
				auth.Credentials{Email: email, Password: password})
			if err != nil {
				return err
			}
			sessions, err := newSessionManager()
			if err != nil {
				return err
			}
			session, err := sessions.Start(user)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s, session valid until %s\n",
				user.Name, session.ExpiresAt.Format("15:04:05"))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(_ *cobra.Command, _ []string) error {
			sessions, err := newSessionManager()
			if err != nil {
				return err
			}
			return sessions.End()
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions, err := newSessionManager()
			if err != nil {
				return err
			}
			session, found, err := sessions.Current()
			if err != nil {
				return err
			}
			if !found {
				return errors.New("not signed in")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", session.User.Name, session.User.Email)
			return nil
		},
	}
}

func newSendCmd() *cobra.Command {
	var fields fieldFlags
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Validate and submit the contact form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			controller, events, err := newController()
			if err != nil {
				return err
			}
			events.Subscribe(client.TopicToast, func(payload any) {
				if toast, ok := payload.(client.Toast); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", toast.Level, toast.Message)
				}
			})
			events.Subscribe(client.TopicFieldErrors, func(payload any) {
				result, ok := payload.(form.Result)
				if !ok {
					return
				}
				for field, violations := range result.Errors {
					for _, v := range violations {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, v)
					}
				}
			})

			fields.apply(controller)
			outcome, err := controller.Submit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent at %s\n", outcome.Timestamp)
			return nil
		},
	}
	bindFieldFlags(cmd, &fields)
	return cmd
}

func newValidateCmd() *cobra.Command {
	var fields fieldFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run field validation without submitting",
		RunE: func(cmd *cobra.Command, _ []string) error {
			values := map[string]string{
				form.FieldName:    fields.name,
				form.FieldEmail:   fields.email,
				form.FieldCompany: fields.company,
				form.FieldPhone:   fields.phone,
				form.FieldSubject: fields.subject,
				form.FieldMessage: fields.message,
			}
			if fields.privacy {
				values[form.FieldPrivacy] = "true"
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			v := form.NewValidator(form.DefaultRules(), cfg.Client.Language)
			result := v.Validate(values)
			if result.Valid {
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			}
			for field, violations := range result.Errors {
				for _, violation := range violations {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, violation)
				}
			}
			return errors.New("validation failed")
		},
	}
	bindFieldFlags(cmd, &fields)
	return cmd
}

func newDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Inspect or clear the autosaved draft",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the autosaved draft",
			RunE: func(cmd *cobra.Command, _ []string) error {
				controller, _, err := newController()
				if err != nil {
					return err
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(controller.Draft())
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete the autosaved draft",
			RunE: func(_ *cobra.Command, _ []string) error {
				controller, _, err := newController()
				if err != nil {
					return err
				}
				return controller.ClearDraft()
			},
		},
	)
	return cmd
}

func bindFieldFlags(cmd *cobra.Command, fields *fieldFlags) {
	cmd.Flags().StringVar(&fields.name, "name", "", "sender name")
	cmd.Flags().StringVar(&fields.email, "email", "", "sender email address")
	cmd.Flags().StringVar(&fields.company, "company", "", "company (optional)")
	cmd.Flags().StringVar(&fields.phone, "phone", "", "phone number (optional)")
	cmd.Flags().StringVar(&fields.subject, "subject", "", "subject code")
	cmd.Flags().StringVar(&fields.message, "message", "", "message body")
	cmd.Flags().BoolVar(&fields.privacy, "privacy", false, "accept the privacy policy")
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
