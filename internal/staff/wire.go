package staff

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"cafeteria/internal/auth"
	"cafeteria/internal/staff/controller"
	"cafeteria/internal/staff/repository"
	"cafeteria/internal/staff/service"
)

type Module struct {
	Resolver   *service.Resolver
	Controller *controller.StaffController
}

// NewModule layers the primary staff collection over the fallback one.
func NewModule(db *sql.DB, tokens *auth.TokenService, logger *zap.Logger) (*Module, error) {
	var stores []service.Store
	for _, name := range []string{repository.PrimaryCollection, repository.FallbackCollection} {
		repo, err := repository.NewMySQLStaffRepository(db, name)
		if err != nil {
			return nil, err
		}
		stores = append(stores, repo)
	}

	resolver, err := service.NewResolver(stores, logger.Named("staff"), time.Now)
	if err != nil {
		return nil, err
	}

	return &Module{
		Resolver:   resolver,
		Controller: controller.NewStaffController(resolver, tokens, logger),
	}, nil
}
