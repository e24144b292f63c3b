package catalog

import (
	"net/http"

	"go.uber.org/zap"

	"cafeteria/internal/commons"
)

type Controller struct {
	reader CatalogReader
	logger *zap.Logger
}

func NewController(reader CatalogReader, logger *zap.Logger) *Controller {
	return &Controller{
		reader: reader,
		logger: logger,
	}
}

// HandleGetCatalog always answers 200; a failed load is an empty catalog.
func (c *Controller) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog := c.reader.Load(r.Context())
	commons.WriteJSON(w, http.StatusOK, toResponse(catalog), c.logger)
}
