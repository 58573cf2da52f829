// Package cli implements the command line subcommands next to the default
// serve mode.
package cli

import (
	"errors"
	"flag"

	"github.com/GGuiilhem/Biblioteca/internal/auth"
	"github.com/GGuiilhem/Biblioteca/internal/config"
	"github.com/GGuiilhem/Biblioteca/internal/database"
)

// CreateAdminCommand bootstraps an administrator account.
type CreateAdminCommand struct {
	fs *flag.FlagSet

	name     string
	email    string
	password string
}

func NewCreateAdminCommand() *CreateAdminCommand {
	cmd := &CreateAdminCommand{
		fs: flag.NewFlagSet("create-admin", flag.ContinueOnError),
	}
	cmd.fs.StringVar(&cmd.name, "name", "", "Administrator display name")
	cmd.fs.StringVar(&cmd.email, "email", "", "Administrator email")
	cmd.fs.StringVar(&cmd.password, "password", "", "Administrator password")
	return cmd
}

func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	if err := cmd.fs.Parse(args); err != nil {
		return err
	}
	if cmd.name == "" || cmd.email == "" || cmd.password == "" {
		return errors.New("-name, -email and -password are required")
	}
	return nil
}

func (cmd *CreateAdminCommand) Run() error {
	cfg := config.NewConfig()

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	service := auth.NewService(db.DB, cfg.Auth)
	account, err := service.CreateAdmin(cmd.name, cmd.email, cmd.password)
	if err != nil {
		return err
	}

	cmd.fs.Output().Write([]byte(
		"Created admin account " + account.Email +
			" with registration " + account.RegistrationNumber + "\n"))
	return nil
}
