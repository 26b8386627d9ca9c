package command

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/security"
	"github.com/todoapp/todo-api/internal/infrastructure/db/postgres"
	"github.com/todoapp/todo-api/pkg/logger"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 72
)

func userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User commands",
	}
	cmd.AddCommand(
		userCreateCommand(),
		userSetRoleCommand(),
	)
	return cmd
}

func userCreateCommand() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create user",
		Long: "Creates a user with the given role. This is how admin and owner accounts are\n" +
			"bootstrapped. Passwords may be provided via stdin or through the interactive prompt.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			r := domain.Role(role)
			if !r.Valid() {
				return domain.ErrInvalidRole
			}
			passwd, err := prompt(cmd, "password: ", true)
			if err != nil {
				return err
			}
			if err := checkPassword(passwd); err != nil {
				return err
			}
			hash, err := security.NewBcryptHasher(bcrypt.DefaultCost).Hash(passwd)
			if err != nil {
				return err
			}

			_, db, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := postgres.Close(db); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			user, err := postgres.NewUserRepository(db).Create(cmd.Context(), &domain.User{
				Username:     args[0],
				PasswordHash: hash,
				Role:         r,
			})
			if err != nil {
				return err
			}

			log := logger.Get()
			log.Info().Int64("user_id", user.ID).Str("name", user.Username).Str("role", string(user.Role)).Msg("created user")
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "role of the new user: owner, user or admin")
	return cmd
}

func userSetRoleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-role NAME ROLE",
		Short: "Change the role of a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			role := domain.Role(args[1])
			if !role.Valid() {
				return domain.ErrInvalidRole
			}

			_, db, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := postgres.Close(db); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			users := postgres.NewUserRepository(db)
			user, err := users.FindByUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if _, err := users.UpdateRole(cmd.Context(), user.ID, role); err != nil {
				return err
			}

			log := logger.Get()
			log.Info().Str("name", user.Username).Str("from", string(user.Role)).Str("to", string(role)).Msg("role changed")
			return nil
		},
	}
}

func checkPassword(p string) error {
	if len(p) < minPasswordLen || len(p) > maxPasswordLen {
		return fmt.Errorf("password must be between %d and %d characters", minPasswordLen, maxPasswordLen)
	}
	return nil
}
