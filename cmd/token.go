package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// newTokenCommand выпускает токен для локальной проверки API
func newTokenCommand() *cobra.Command {
	var (
		userID       string
		role         string
		departmentID string
		ttl          time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Выпустить JWT для разработки",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Close()

			actor := domain.Actor{Role: domain.Role(role)}
			if userID == "" {
				actor.ID = uuid.New()
			} else if actor.ID, err = uuid.Parse(userID); err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			if departmentID != "" {
				dept, err := uuid.Parse(departmentID)
				if err != nil {
					return fmt.Errorf("invalid --department: %w", err)
				}
				actor.DepartmentID = &dept
			}

			token, err := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer, log).Issue(actor, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "ID пользователя (по умолчанию случайный)")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleCitizen), "роль: citizen, officer, admin")
	cmd.Flags().StringVar(&departmentID, "department", "", "ID отдела (для officer)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "время жизни токена")
	return cmd
}
