package bootstrap

import (
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/WalidElHadhri/PDS/internal/config"
	"github.com/WalidElHadhri/PDS/internal/infra/cache"
	"github.com/WalidElHadhri/PDS/internal/infra/db"
	"github.com/WalidElHadhri/PDS/internal/infra/logger"
	"github.com/WalidElHadhri/PDS/internal/modules/handler"
	"github.com/WalidElHadhri/PDS/internal/modules/model"
	"github.com/WalidElHadhri/PDS/internal/modules/repo"
	"github.com/WalidElHadhri/PDS/internal/modules/service"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			_ = d.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`)

			if err := d.AutoMigrate(
				&model.User{},
				&model.Project{},
				&model.Version{},
			); err != nil {
				return nil, err
			}
		}
		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg)
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.UserRepo, error) {
		return repo.NewUserRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		return repo.NewProjectRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.VersionRepo, error) {
		return repo.NewVersionRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.AuthService, error) {
		return service.NewAuthService(
			do.MustInvoke[repo.UserRepo](i),
			do.MustInvoke[*redis.Client](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.UserRepo](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.VersionService, error) {
		return service.NewVersionService(
			do.MustInvoke[repo.VersionRepo](i),
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.UserRepo](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.AuthHandler, error) {
		return handler.NewAuthHandler(do.MustInvoke[service.AuthService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(do.MustInvoke[service.ProjectService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.CollaboratorHandler, error) {
		return handler.NewCollaboratorHandler(do.MustInvoke[service.ProjectService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.DocHandler, error) {
		return handler.NewDocHandler(do.MustInvoke[service.ProjectService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.VersionHandler, error) {
		return handler.NewVersionHandler(do.MustInvoke[service.VersionService](i)), nil
	})

	return inj
}
