// Command grant-role assigns a role to an existing account, identified by
// email. It is the only way to create the first administrator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/bootstrap"
	"github.com/formar-para-liderar/app-bolsas/internal/config"
	"github.com/formar-para-liderar/app-bolsas/internal/logging"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/repository"
	"github.com/formar-para-liderar/app-bolsas/internal/services"
	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "", "email of the account to update")
	role := flag.String("role", string(models.RoleAdmin), "role to grant (admin or candidato)")
	flag.Parse()

	if err := logging.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Logger.Sync()

	if *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*email, *role); err != nil {
		logging.Logger.Error("grant role failed", zap.Error(err))
		logging.Logger.Sync()
		os.Exit(1)
	}
}

func run(email, role string) error {
	if err := config.LoadConfig(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := config.AppConfig
	if cfg.StorageBackend == config.StorageMemory {
		return errors.New("grant-role needs a persistent storage backend")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer backend.Close(context.Background())

	account, err := backend.Store.Accounts.FindByEmail(ctx, models.NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("no account registered with email %s", email)
	}
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}

	// written synchronously: the worker is never started
	audit := services.NewAuditWorker(backend.Store.Audit, 1, 1, logging.Logger)
	audit.Stop()

	svc := services.New(backend.Store, cfg, audit, nil, logging.Logger)
	assignment, err := svc.Roles.Grant(ctx, account.ID, role, models.AuditContext{UserID: "cli:grant-role"})
	if errors.Is(err, models.ErrRoleAlreadyAssigned) {
		logging.Logger.Info("role already assigned", zap.String("user_id", account.ID), zap.String("role", role))
		return nil
	}
	if err != nil {
		return err
	}

	logging.Logger.Info("role granted",
		zap.String("user_id", assignment.UserID),
		zap.String("role", string(assignment.Role)))
	return nil
}
