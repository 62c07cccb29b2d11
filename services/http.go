package services

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"

	_ "github.com/NarendraTezu/AI-Agent-Assignment/docs"
	"github.com/NarendraTezu/AI-Agent-Assignment/services/handlers"
	"github.com/NarendraTezu/AI-Agent-Assignment/shared"
)

type HttpService struct {
	context.DefaultService

	rateLimitSvc  *RateLimitService
	priceSvc      *PriceService
	translateSvc  *TranslateService
	monitoringSvc *MonitoringService

	port int
	app  *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.priceSvc = svc.Service(PRICE_SVC).(*PriceService)
	svc.translateSvc = svc.Service(TRANSLATE_SVC).(*TranslateService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	svc.app = fiber.New(fiber.Config{
		AppName:      SERVICE_NAME,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: shared.ErrorHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 45 * time.Second,
	})

	svc.app.Use(recover.New())
	svc.app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	svc.app.Use(cors.New())
	svc.app.Use(MonitoringMiddleware(svc.monitoringSvc))

	svc.app.Get("/ping", svc.ping)
	svc.app.Get("/swagger/*", swagger.HandlerDefault)

	agentHandler := handlers.NewAgentHandler(svc.rateLimitSvc, svc.priceSvc, svc.translateSvc)
	svc.app.Post("/agent", agentHandler.Dispatch)

	svc.app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}
