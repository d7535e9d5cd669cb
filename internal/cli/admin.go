package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cleanblog/internal/db"
	"github.com/cleanblog/internal/service"
	"github.com/spf13/cobra"
)

// ErrUsersExist is returned by create-admin when the users table is not empty.
var ErrUsersExist = errors.New("users already exist; the first registered account is the administrator")

// CreateAdminOptions holds flags for the create-admin command.
type CreateAdminOptions struct {
	*RootOptions
	Email    string
	Name     string
	Password string
}

// NewCreateAdminCommand creates the create-admin command.
func NewCreateAdminCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateAdminOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Register the administrator account on an empty database",
		Long: `Register the administrator account on an empty database.

The password is read from --password or, when omitted, from the
ADMIN_PASSWORD environment variable.

Example:
  cleanblog create-admin --email owner@example.com --name Owner`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateAdmin(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "administrator email (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "administrator password (defaults to $ADMIN_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runCreateAdmin(cmd *cobra.Command, opts *CreateAdminOptions) error {
	password := opts.Password
	if password == "" {
		password = os.Getenv("ADMIN_PASSWORD")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("a password is required: pass --password or set ADMIN_PASSWORD")
	}

	gdb, log, err := openStore(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeDB(gdb)

	var count int64
	if err := gdb.WithContext(cmd.Context()).Model(&db.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return ErrUsersExist
	}

	identity := service.NewIdentityService(gdb, 0, log)
	user, err := identity.Register(cmd.Context(), opts.Email, password, opts.Name)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	if !user.IsAdmin() {
		return fmt.Errorf("account %d was created without the admin role", user.ID)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "administrator %s created (id %d)\n", user.Email, user.ID)
	return nil
}
