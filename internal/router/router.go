package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	apperrors "mediscanner/internal/errors"
	"mediscanner/internal/handler"
	"mediscanner/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	recordHandler *handler.RecordHandler,
	mediaHandler *handler.MediaHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// Secured routes. Every request re-verifies signature, expiry, and
	// revocation through the auth service.
	jwtConfig := echojwt.Config{
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authService.Authenticate(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			httpErr := apperrors.MapErrorToHTTP(err)
			if httpErr.StatusCode == http.StatusInternalServerError {
				// Missing or malformed Authorization header.
				httpErr = apperrors.NewHTTPError(http.StatusUnauthorized, "invalid or missing token", "TOKEN_INVALID")
			}
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	}

	secured := e.Group("", echojwt.WithConfig(jwtConfig))

	secured.POST("/auth/logout", authHandler.Logout)
	secured.POST("/auth/reset-password", authHandler.ResetPassword)

	medicine := secured.Group("/medicine")
	medicine.POST("/uploadMedicalPrescription", recordHandler.Upload)
	medicine.GET("/usersMedicalData", recordHandler.List)
	medicine.GET("/records/:id", recordHandler.Get)
	medicine.PUT("/records/:id", recordHandler.Update)
	medicine.DELETE("/records/:id", recordHandler.Delete)
	medicine.GET("/stats", recordHandler.Stats)

	imagekit := secured.Group("/imagekit")
	imagekit.GET("/auth", mediaHandler.AuthParams)
	imagekit.POST("/upload", mediaHandler.Upload)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
