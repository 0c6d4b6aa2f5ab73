// Команда create-admin заводит учетную запись директора из аргументов
// командной строки: email, пароль и полное имя. Повторное создание
// учетной записи с тем же email отклоняется.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/magabrotheeeer/olympiad-crm/internal/config"
	"github.com/magabrotheeeer/olympiad-crm/internal/errs"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/password"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/sl"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
	"github.com/magabrotheeeer/olympiad-crm/internal/storage/repository"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Fprintln(os.Stderr, "usage: create-admin <email> <password> <full name>")
		os.Exit(1)
	}
	email := os.Args[1]
	pass := os.Args[2]
	fullName := strings.Join(os.Args[3:], " ")

	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx := context.Background()

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to storage", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		_ = db.DB.Close()
	}()

	if _, err := db.GetEmployeeByEmail(ctx, email); err == nil {
		logger.Error("employee with this email already exists", slog.String("email", email))
		os.Exit(1)
	} else if !errors.Is(err, errs.ErrNotFound) {
		logger.Error("failed to check existing employee", sl.Err(err))
		os.Exit(1)
	}

	hash, err := password.GetHash(pass)
	if err != nil {
		logger.Error("failed to hash password", sl.Err(err))
		os.Exit(1)
	}

	id, err := db.CreateEmployee(ctx, models.Employee{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleDirector,
		Status:       models.EmployeeStatusActive,
	})
	if err != nil {
		logger.Error("failed to create admin", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("admin account created",
		slog.Int("id", id), slog.String("email", email))
}
