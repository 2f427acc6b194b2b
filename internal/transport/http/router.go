package http

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"
	"gorm.io/gorm"

	"backtest_server/internal/domain"
	"backtest_server/internal/usecase"
)

type SimulationService interface {
	Run(ctx context.Context, setups []domain.TradeSetup, params domain.SimulationParams) (domain.SimulationResult, error)
	RunPortfolio(ctx context.Context, params domain.SimulationParams) (domain.SimulationRun, error)
	CreateSetup(ctx context.Context, setup domain.TradeSetup) (domain.TradeSetup, error)
	ListSetups(ctx context.Context, limit int) ([]domain.TradeSetup, error)
	DeleteSetup(ctx context.Context, id int64) error
	ListRuns(ctx context.Context, limit int) ([]domain.SimulationRun, error)
	GetRun(ctx context.Context, id int64) (domain.SimulationRun, error)
}

type Router struct {
	app        *fiber.App
	simService SimulationService
}

func New(simService SimulationService) *Router {
	app := fiber.New()

	r := &Router{
		app:        app,
		simService: simService,
	}

	api := app.Group("/api")
	v1 := api.Group("/v1")

	v1.Post("/setups", r.createSetup)
	v1.Get("/setups", r.listSetups)
	v1.Delete("/setups/:id", r.deleteSetup)

	v1.Post("/simulations", r.runSimulation)
	v1.Post("/simulations/portfolio", r.runPortfolio)
	v1.Get("/simulations", r.listRuns)
	v1.Get("/simulations/:id", r.getRun)

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return r
}

func (r *Router) App() *fiber.App {
	return r.app
}

type TradeSetupRequest struct {
	Symbol     string  `json:"symbol"`
	Direction  string  `json:"direction"`
	EntryPrice float64 `json:"entryPrice"`
	TakeProfit float64 `json:"takeProfit"`
	StopLoss   float64 `json:"stopLoss"`
	SetupDate  string  `json:"setupDate"`
	Confidence float64 `json:"confidence"`
}

type SimulationRequest struct {
	Trades       []TradeSetupRequest `json:"trades"`
	PositionSize float64             `json:"positionSize"`
	Leverage     float64             `json:"leverage"`
	ExtendDays   int                 `json:"extendDays"`
}

type PortfolioSimulationRequest struct {
	PositionSize float64 `json:"positionSize"`
	Leverage     float64 `json:"leverage"`
	ExtendDays   int     `json:"extendDays"`
}

// createSetup godoc
// @Summary Store a trade setup
// @Tags setups
// @Accept json
// @Produce json
// @Param request body TradeSetupRequest true "Trade setup"
// @Success 201 {object} domain.TradeSetup
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /setups [post]
func (r *Router) createSetup(c *fiber.Ctx) error {
	if r.simService == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "simulation service unavailable")
	}

	var payload TradeSetupRequest
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	setup, err := decodeSetup(payload)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(userContext(c), 10*time.Second)
	defer cancel()

	saved, err := r.simService.CreateSetup(ctx, setup)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(saved)
}

// listSetups godoc
// @Summary List stored trade setups
// @Tags setups
// @Produce json
// @Param limit query int false "Maximum number of setups"
// @Success 200 {array} domain.TradeSetup
// @Failure 500 {object} map[string]string
// @Router /setups [get]
func (r *Router) listSetups(c *fiber.Ctx) error {
	if r.simService == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "simulation service unavailable")
	}

	limit := 100
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	setups, err := r.simService.ListSetups(ctx, limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(setups)
}

// deleteSetup godoc
// @Summary Delete a stored trade setup
// @Tags setups
// @Produce json
// @Param id path int true "Setup ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /setups/{id} [delete]
func (r *Router) deleteSetup(c *fiber.Ctx) error {
	if r.simService == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "simulation service unavailable")
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid setup id")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	if err := r.simService.DeleteSetup(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "setup not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{"status": "deleted"})
}

// runSimulation godoc
// @Summary Simulate a batch of trade setups
// @Tags simulations
// @Accept json
// @Produce json
// @Param request body SimulationRequest true "Trade setups and sizing parameters"
// @Success 200 {object} domain.SimulationResult
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /simulations [post]
func (r *Router) runSimulation(c *fiber.Ctx) error {
	if r.simService == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "simulation service unavailable")
	}

	var payload SimulationRequest
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	setups := make([]domain.TradeSetup, 0, len(payload.Trades))
	for i, item := range payload.Trades {
		setup, err := decodeSetup(item)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("trade %d: %v", i, err))
		}
		setup.ID = int64(i + 1)
		setups = append(setups, setup)
	}

	ctx, cancel := context.WithTimeout(userContext(c), 60*time.Second)
	defer cancel()

	result, err := r.simService.Run(ctx, setups, domain.SimulationParams{
		PositionSize: payload.PositionSize,
		Leverage:     payload.Leverage,
		ExtendDays:   payload.ExtendDays,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(result)
}

// runPortfolio godoc
// @Summary Simulate all stored setups and persist the run
// @Tags simulations
// @Accept json
// @Produce json
// @Param request body PortfolioSimulationRequest false "Sizing parameters"
// @Success 201 {object} domain.SimulationRun
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /simulations/portfolio [post]
func (r *Router) runPortfolio(c *fiber.Ctx) error {
	if r.simService == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "simulation service unavailable")
	}

	var payload PortfolioSimulationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
	}

	ctx, cancel := context.WithTimeout(userContext(c), 120*time.Second)
	defer cancel()

	run, err := r.simService.RunPortfolio(ctx, domain.SimulationParams{
		PositionSize: payload.PositionSize,
		Leverage:     payload.Leverage,
		ExtendDays:   payload.ExtendDays,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrNoSetups) {
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"status": "no setups stored",
			})
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(run)
}

// listRuns godoc
// @Summary List persisted simulation runs
// @Tags simulations
// @Produce json
// @Param limit query int false "Maximum number of runs"
// @Success 200 {array} domain.SimulationRun
// @Failure 500 {object} map[string]string
// @Router /simulations [get]
func (r *Router) listRuns(c *fiber.Ctx) error {
	if r.simService == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "simulation service unavailable")
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	runs, err := r.simService.ListRuns(ctx, limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(runs)
}

// getRun godoc
// @Summary Fetch one simulation run with its trades
// @Tags simulations
// @Produce json
// @Param id path int true "Run ID"
// @Success 200 {object} domain.SimulationRun
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /simulations/{id} [get]
func (r *Router) getRun(c *fiber.Ctx) error {
	if r.simService == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "simulation service unavailable")
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid run id")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 10*time.Second)
	defer cancel()

	run, err := r.simService.GetRun(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "run not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(run)
}

func decodeSetup(payload TradeSetupRequest) (domain.TradeSetup, error) {
	if payload.Symbol == "" {
		return domain.TradeSetup{}, errors.New("symbol required")
	}

	setupDate := parseDate(payload.SetupDate)
	if setupDate.IsZero() {
		return domain.TradeSetup{}, errors.New("invalid setupDate")
	}

	return domain.TradeSetup{
		Symbol:     payload.Symbol,
		Direction:  domain.Direction(payload.Direction),
		EntryPrice: payload.EntryPrice,
		TakeProfit: payload.TakeProfit,
		StopLoss:   payload.StopLoss,
		SetupDate:  setupDate,
		Confidence: payload.Confidence,
	}, nil
}

func parseDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
