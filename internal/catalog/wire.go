package catalog

import (
	"database/sql"

	"go.uber.org/zap"

	"cafeteria/internal/catalog/repository"
)

type Module struct {
	Reader     CatalogReader
	Controller *Controller
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	repo := repository.NewMySQLRepository(db)
	reader := NewReader(repo, logger.Named("catalog"))
	return &Module{
		Reader:     reader,
		Controller: NewController(reader, logger),
	}
}
