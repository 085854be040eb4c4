package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/SraaaamX/realestate-api/internal/config"
	"github.com/SraaaamX/realestate-api/internal/database"
	"github.com/SraaaamX/realestate-api/internal/dto"
	"github.com/SraaaamX/realestate-api/internal/models"
	"github.com/SraaaamX/realestate-api/internal/repository"
	"github.com/SraaaamX/realestate-api/internal/utils"
	"github.com/SraaaamX/realestate-api/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type account struct {
	name     string
	nickname string
	email    string
	password string
}

var (
	admin account
	agent account
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the initial admin (and optionally an agent) account",
	Long: `Creates the first admin account so the API can be administered.
Values come from flags, falling back to ADMIN_* and AGENT_* environment
variables (a .env file is honoured). Existing accounts with the same email
are left untouched.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&admin.name, "admin-name", "", "Admin display name (env ADMIN_NAME)")
	flags.StringVar(&admin.nickname, "admin-nickname", "", "Admin nickname (env ADMIN_NICKNAME)")
	flags.StringVar(&admin.email, "admin-email", "", "Admin email (env ADMIN_EMAIL)")
	flags.StringVar(&admin.password, "admin-password", "", "Admin password (env ADMIN_PASSWORD)")
	flags.StringVar(&agent.name, "agent-name", "", "Agent display name (env AGENT_NAME)")
	flags.StringVar(&agent.nickname, "agent-nickname", "", "Agent nickname (env AGENT_NICKNAME)")
	flags.StringVar(&agent.email, "agent-email", "", "Agent email, skipped when empty (env AGENT_EMAIL)")
	flags.StringVar(&agent.password, "agent-password", "", "Agent password (env AGENT_PASSWORD)")
}

// fillFromEnv sets every field left empty by flags from PREFIX_* variables.
func (a *account) fillFromEnv(prefix string) {
	fill := func(field *string, key string) {
		if *field == "" {
			*field = os.Getenv(prefix + "_" + key)
		}
	}
	fill(&a.name, "NAME")
	fill(&a.nickname, "NICKNAME")
	fill(&a.email, "EMAIL")
	fill(&a.password, "PASSWORD")
}

func run(cmd *cobra.Command, args []string) error {
	// Loads .env before any fallback is read
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	admin.fillFromEnv("ADMIN")
	agent.fillFromEnv("AGENT")

	if admin.nickname == "" || admin.email == "" || admin.password == "" {
		return errors.New("missing admin account: set ADMIN_NICKNAME, ADMIN_EMAIL and ADMIN_PASSWORD (or the matching flags)")
	}

	if err := logger.Init(cfg.IsDevelopment()); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	users := repository.NewUserRepository(db)
	ctx := cmd.Context()

	if err := ensureAccount(ctx, users, admin, models.RoleAdmin); err != nil {
		return err
	}
	if agent.email != "" {
		if err := ensureAccount(ctx, users, agent, models.RoleAgent); err != nil {
			return err
		}
	}
	return nil
}

func ensureAccount(ctx context.Context, users *repository.UserRepository, acc account, role models.Role) error {
	email := dto.NormalizeEmail(acc.email)

	existing, err := users.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("look up %s: %w", email, err)
	}
	if existing != nil {
		logger.Log.Info("Account already exists",
			zap.String("email", existing.Email),
			zap.String("role", string(existing.Role)),
		)
		return nil
	}

	if acc.nickname == "" || acc.password == "" {
		return fmt.Errorf("account %s needs a nickname and a password", email)
	}

	passwordHash, err := utils.HashPassword(acc.password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	name := acc.name
	if name == "" {
		name = acc.nickname
	}

	user := &models.User{
		Name:         name,
		Nickname:     acc.nickname,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := users.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("create %s: %w", email, err)
	}

	logger.Log.Info("Account created",
		zap.String("id", user.ID),
		zap.String("nickname", user.Nickname),
		zap.String("email", user.Email),
		zap.String("role", string(role)),
	)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
