package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/mrlokans/placebook/internal/auth"
	"github.com/mrlokans/placebook/internal/config"
	"github.com/mrlokans/placebook/internal/database/users"
	"github.com/mrlokans/placebook/internal/entities"
)

// CreateUserCommand adds a user for local authentication.
type CreateUserCommand struct {
	storageFlags
	Username string
	Email    string
	Password string
	Role     string

	cfg *config.Config
	Out io.Writer
}

func NewCreateUserCommand(cfg *config.Config) *CreateUserCommand {
	return &CreateUserCommand{cfg: cfg}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	cmd.storageFlags.register(fs, cmd.cfg)
	fs.StringVar(&cmd.Username, "username", "", "Username (required)")
	fs.StringVar(&cmd.Email, "email", "", "Email address (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password (required)")
	fs.StringVar(&cmd.Role, "role", string(entities.UserRoleAdmin), "Role: admin, editor or viewer")
	fs.Usage = usage(fs, "create-user -username <name> -email <email> -password <password> [options]",
		"Create a user for AUTH_MODE=local.")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Username == "" || cmd.Email == "" || cmd.Password == "" {
		return fmt.Errorf("flags -username, -email and -password are required")
	}
	return nil
}

func (cmd *CreateUserCommand) Run(ctx context.Context) error {
	core, log, err := cmd.open(cmd.cfg)
	if err != nil {
		return err
	}
	defer core.Close()

	service := auth.NewService(users.NewRepository(core.DB.DB), cmd.cfg.Auth, log)
	user, err := service.CreateUser(ctx, cmd.Username, cmd.Email, cmd.Password, entities.UserRole(cmd.Role))
	if err != nil {
		return err
	}

	fmt.Fprintf(outOrStdout(cmd.Out), "Created %s user %q (id %d)\n", user.Role, user.Username, user.ID)
	return nil
}
