package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/trainboard/trainboard/pkg/traffic"
)

type TrainService interface {
	Snapshot(ctx context.Context) (*traffic.LiveSnapshot, error)
	PredictArrivals(ctx context.Context, stationIdentifier string) (*traffic.PredictionResult, error)
	TrainsAtLocation(ctx context.Context, identifier string) (*traffic.OccupancyResult, error)
	TrainDetail(ctx context.Context, trainID string) (*traffic.TrainDetail, error)
}

type trainsHandler struct {
	service TrainService
	timeout time.Duration
}

func TrainsRouter(router fiber.Router, service TrainService, timeout time.Duration) {
	handler := &trainsHandler{service: service, timeout: timeout}

	router.Get("/", handler.listTrains)
	router.Get("/station/:idOrName", handler.getTrainsAtStation)
	router.Get("/arrivals/:stationIdOrName", handler.getArrivals)
	router.Get("/detail/:trainId", handler.getTrainDetail)
}

func (h *trainsHandler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.timeout)
}

func (h *trainsHandler) listTrains(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	snapshot, err := h.service.Snapshot(ctx)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(snapshot)
}

func (h *trainsHandler) getTrainsAtStation(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.service.TrainsAtLocation(ctx, c.Params("idOrName"))
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(result)
}

func (h *trainsHandler) getArrivals(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.service.PredictArrivals(ctx, c.Params("stationIdOrName"))
	if err != nil {
		return sendError(c, err)
	}

	groups := []string{"basic"}
	if c.QueryBool("detailed") {
		groups = []string{"basic", "detailed"}
	}

	resultReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, result)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce arrivals",
		})
	}

	return c.JSON(resultReduced)
}

func (h *trainsHandler) getTrainDetail(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	detail, err := h.service.TrainDetail(ctx, c.Params("trainId"))
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(detail)
}
