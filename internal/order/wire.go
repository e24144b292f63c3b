package order

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"cafeteria/internal/cart"
	"cafeteria/internal/config"
	"cafeteria/internal/events"
	"cafeteria/internal/notify"
	"cafeteria/internal/order/controller"
	orderrepo "cafeteria/internal/order/repository"
	"cafeteria/internal/order/service"
	"cafeteria/internal/order/tracker"
	"cafeteria/internal/order/usecase"
)

type Module struct {
	Controller *controller.OrderController
	Tracker    *tracker.Tracker
}

func NewModule(
	db *sql.DB,
	cfg *config.Config,
	feed notify.Feed,
	publisher events.Publisher,
	sessions *cart.Sessions,
	logger *zap.Logger,
) (*Module, error) {
	window, err := service.NewWindow(cfg.Pickup)
	if err != nil {
		return nil, err
	}

	orderRepo := orderrepo.NewMySQLOrderRepository(db, time.Now)
	scheduler := service.NewScheduler(window, time.Now)
	orderLogger := logger.Named("order")

	submit := usecase.NewSubmitOrderUseCase(orderRepo, scheduler, feed, publisher, orderLogger, time.Now)
	advance := usecase.NewAdvanceStatusUseCase(orderRepo, feed, orderLogger)
	tr := tracker.NewTracker(orderRepo, feed, orderLogger)

	return &Module{
		Controller: controller.NewOrderController(submit, advance, tr, scheduler, sessions, logger),
		Tracker:    tr,
	}, nil
}
