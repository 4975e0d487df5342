package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"surveydesk/docs"
	"surveydesk/internal/auth"
	"surveydesk/internal/config"
	"surveydesk/internal/errors"
	"surveydesk/internal/handler"
	"surveydesk/internal/model"
)

// Handlers groups the HTTP handlers served once the database is available.
type Handlers struct {
	Auth    *handler.AuthHandler
	Users   *handler.UserHandler
	Surveys *handler.SurveyHandler
	Reports *handler.ReportHandler
	Admin   *handler.AdminHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	gatherer prometheus.Gatherer,
	h Handlers,
) {
	useCommon(e, cfg, gatherer)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/questionnaires", h.Surveys.Questionnaires)

	// Secured routes (require JWT authentication)
	secured := api.Group("", JWT(jwtService))
	secured.GET("/me", h.Auth.Me)
	secured.POST("/surveys/hpo", h.Surveys.SubmitHPO)
	secured.POST("/surveys/lideranca", h.Surveys.SubmitLeadership)

	reports := secured.Group("/reports", RequireRole(model.RoleAdministrator, model.RoleManager))
	reports.GET("/overview", h.Reports.Overview)
	reports.GET("/hpo", h.Reports.HPO)
	reports.GET("/lideranca", h.Reports.Leadership)

	admin := secured.Group("", RequireRole(model.RoleAdministrator))
	admin.GET("/export/hpo.csv", h.Admin.ExportHPO)
	admin.GET("/export/lideranca.csv", h.Admin.ExportLeadership)
	admin.DELETE("/responses", h.Admin.ClearResponses)
	admin.GET("/users", h.Users.ListUsers)
	admin.POST("/users", h.Users.CreateUser)
	admin.DELETE("/users/:id", h.Users.DeleteUser)
}

// RegisterSetup serves setup instructions on every route except health and metrics.
func RegisterSetup(e *echo.Echo, cfg *config.Config, gatherer prometheus.Gatherer, setup *handler.SetupHandler) {
	useCommon(e, cfg, gatherer)
	e.Any("/*", setup.Instructions)
}

func useCommon(e *echo.Echo, cfg *config.Config, gatherer prometheus.Gatherer) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}

// JWT authenticates bearer tokens and stores their *auth.Claims under handler.ClaimsContextKey.
func JWT(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.ClaimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(_ echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateAccessToken(token)
		},
		ErrorHandler: func(_ echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "invalid or missing token",
				Code:  "UNAUTHORIZED",
			})
		},
	})
}

// RequireRole rejects callers whose token role is not one of roles.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := handler.CurrentClaims(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "authorization token required",
					Code:  "UNAUTHORIZED",
				})
			}
			for _, r := range roles {
				if claims.Role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
				Error: "insufficient permissions",
				Code:  "FORBIDDEN",
			})
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
