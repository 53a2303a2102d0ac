package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/pkg/campdesk"
	"github.com/jakechorley/relief-camps/pkg/core/services"
	"github.com/jakechorley/relief-camps/pkg/db"
)

var errNotSignedIn = errors.New("not signed in (run signIn or signUp first)")

// currentAccount returns the signed-in account
func currentAccount(app *AppContext) (*db.Account, error) {
	token, err := app.Sessions.Token()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, errNotSignedIn
	}

	r := app.Desk.Auth.GetCurrentUser(app.Ctx, token)
	if err := r.Err(); err != nil {
		return nil, err
	}
	if r.Data == nil {
		return nil, errNotSignedIn
	}
	return r.Data, nil
}

func keepSession(app *AppContext, session *db.Session) error {
	if session == nil {
		return nil
	}
	return app.Sessions.Set(session.Token)
}

// SignUpCmd creates the signUp command
func SignUpCmd(app *AppContext) *cobra.Command {
	var fields services.ProfileFields
	var age int

	cmd := &cobra.Command{
		Use:   "signUp <email> <password>",
		Short: "Register a new user and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("signUp command", zap.String("email", args[0]), zap.String("role", fields.Role))

			if cmd.Flags().Changed("age") {
				fields.Age = &age
			} else {
				fields.Age = nil
			}

			r := app.Desk.Auth.SignUp(app.Ctx, args[0], args[1], fields)
			if r.OK() {
				if err := keepSession(app, r.Data); err != nil {
					return err
				}
			}
			return render(app, r, func(w io.Writer, s *db.Session) {
				fmt.Fprintf(w, "\n✅ Signed up and signed in\n\n")
				printAccount(w, s.Account)
				fmt.Fprintln(w)
			})
		},
	}

	cmd.Flags().StringVar(&fields.Name, "name", "", "Full name (required)")
	cmd.Flags().StringVar(&fields.Role, "role", db.RoleAffectedPerson, "Role: affected-person, volunteer or coordinator")
	cmd.Flags().StringVar(&fields.Contact, "contact", "", "Contact phone number")
	cmd.Flags().StringVar(&fields.Address, "address", "", "Address")
	cmd.Flags().StringVar(&fields.Needs, "needs", "", "Needs (affected people)")
	cmd.Flags().StringVar(&fields.Skills, "skills", "", "Skills (volunteers)")
	cmd.Flags().StringVar(&fields.Availability, "availability", "", "Availability (volunteers)")
	cmd.Flags().IntVar(&age, "age", 0, "Age")

	return cmd
}

// SignInCmd creates the signIn command
func SignInCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "signIn <email> <password>",
		Short: "Sign in with email and password",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("signIn command", zap.String("email", args[0]))

			r := app.Desk.Auth.SignIn(app.Ctx, args[0], args[1])
			if r.OK() {
				if err := keepSession(app, r.Data); err != nil {
					return err
				}
			}
			return render(app, r, func(w io.Writer, s *db.Session) {
				name := s.UserID
				if s.Account != nil {
					name = s.Account.Profile.Name
				}
				fmt.Fprintf(w, "\n✅ Signed in as %s\n\n", name)
			})
		},
	}
}

// SignOutCmd creates the signOut command
func SignOutCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "signOut",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.Sessions.Token()
			if err != nil {
				return err
			}

			r := app.Desk.Auth.SignOut(app.Ctx, token)
			if r.OK() {
				if err := app.Sessions.Clear(); err != nil {
					return err
				}
			}
			return render(app, r, func(w io.Writer, _ campdesk.Empty) {
				fmt.Fprintln(w, "👋 Signed out")
			})
		},
	}
}

// WhoAmICmd creates the whoami command
func WhoAmICmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.Sessions.Token()
			if err != nil {
				return err
			}

			return render(app, app.Desk.Auth.GetCurrentUser(app.Ctx, token), func(w io.Writer, a *db.Account) {
				if a == nil {
					fmt.Fprintln(w, "Not signed in.")
					return
				}
				printAccount(w, a)
			})
		},
	}
}
