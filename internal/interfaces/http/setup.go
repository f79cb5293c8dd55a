package http

import (
	"expvar"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/devtrail/devtrail/internal/domain"
	infra "github.com/devtrail/devtrail/internal/infrastructure"
	"github.com/devtrail/devtrail/internal/infrastructure/auth"
	"github.com/devtrail/devtrail/internal/infrastructure/driver"
	"github.com/devtrail/devtrail/internal/infrastructure/validate"
	"github.com/devtrail/devtrail/internal/interfaces/http/middleware"
	"github.com/labstack/echo/v4"
	echo_middleware "github.com/labstack/echo/v4/middleware"
	"go.elastic.co/apm/module/apmechov4"
	"go.uber.org/zap"
)

// Serve create http transport server
func Serve(
	option *infra.AppConfig,
	logger *zap.Logger,
	conn driver.ITransactionalDB,
	rdb driver.KeyValueDB,
	UserUseCase domain.UserUseCase,
	CatalogUseCase domain.CatalogUseCase,
	ProgressUseCase domain.ProgressUseCase,
	FriendshipUseCase domain.FriendshipUseCase,
	NotificationUseCase domain.NotificationUseCase,
) {
	app := echo.New()
	jwtUtil := auth.NewJWTUtil(option.Security.JWTMethod,
		option.Security.JWTSecret,
		option.Security.TokenName,
		option.SessionTimeout)
	validator := validate.NewValidator()
	ws := infra.NewWebsocket()
	jwtMiddleware := middleware.VerifyToken(jwtUtil, &middleware.ValidateTokenOption{
		InBlackList: func(token string) (bool, error) {
			return rdb.Exists(token)
		},
	})
	refreshMiddleware := middleware.RefreshToken(jwtUtil, &middleware.RefreshTokenOption{
		Threshold: option.SessionRefresh,
	})

	app.Use(echo_middleware.RequestID())
	app.Use(middleware.SetTraceLogger(logger))
	app.Use(middleware.Logging(logger, &middleware.LoggingConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/healthz"
		},
	}))
	app.Use(middleware.ErrorHandling(
		&middleware.ErrorHandlingOption{
			Logger: logger,
			Handler: func(c echo.Context, err error) {
				respondError(c, err)
			},
		},
	))
	app.Use(echo_middleware.Secure())
	if option.DevOP.APM {
		app.Use(apmechov4.Middleware())
	}
	app.Use(echo_middleware.CORS())
	app.Use(middleware.AbortRequest(&middleware.AbortRequestOption{
		Timeout: option.RequestTimeout,
	}))

	UserHandler := NewUserHandler(jwtUtil, rdb, UserUseCase, validator)
	CatalogHandler := NewCatalogHandler(CatalogUseCase)
	ProgressHandler := NewProgressHandler(ProgressUseCase, jwtUtil, validator)
	FriendshipHandler := NewFriendshipHandler(FriendshipUseCase, jwtUtil, validator)
	NotificationHandler := NewNotificationHandler(NotificationUseCase, jwtUtil, validator)

	registerLivenessProbe(app, conn, rdb)
	if option.Env == infra.EnvDevelopment {
		registerProfileEndpoints(app, jwtMiddleware)
	}

	v1 := app.Group("/api/v1")
	UserGroup := v1.Group("/user")
	CatalogGroup := v1.Group("/catalog")
	ProgressGroup := v1.Group("/progress")
	FriendsGroup := v1.Group("/friends", jwtMiddleware, refreshMiddleware)
	NotificationGroup := v1.Group("/notifications", jwtMiddleware, refreshMiddleware)

	UserGroup.POST("/login", UserHandler.HandleSignIn)
	UserGroup.GET("/sign-out", UserHandler.HandleSignOut)
	UserGroup.POST("/sign-up", UserHandler.HandleSignUp)
	UserGroup.GET("/exists", UserHandler.HandleUserExists)

	CatalogGroup.GET("", CatalogHandler.HandleListCatalog)
	CatalogGroup.GET("/:item_id", CatalogHandler.HandleGetItem)

	ProgressGroup.GET("/view/:user_id", ProgressHandler.HandleGetProgressView)
	ProgressGroup.GET("/view", ProgressHandler.HandleGetOwnProgressView, jwtMiddleware, refreshMiddleware)
	ProgressGroup.PUT("/update", ProgressHandler.HandleUpdateStatus, jwtMiddleware, refreshMiddleware)
	ProgressGroup.DELETE("/reset/:user_id", ProgressHandler.HandleResetProgress, jwtMiddleware, refreshMiddleware)

	FriendsGroup.POST("/request", FriendshipHandler.HandleSendRequest)
	FriendsGroup.PUT("/accept/:request_id", FriendshipHandler.HandleAcceptRequest)
	FriendsGroup.GET("", FriendshipHandler.HandleListFriends)

	NotificationGroup.GET("", NotificationHandler.HandleListNotifications)
	NotificationGroup.PUT("/:id/read", NotificationHandler.HandleMarkRead)

	v1.GET("/ws/notifications", ws.WithHeartbeat(NotificationHandler.HandleUnreadStream), jwtMiddleware)

	printRoutes(app, logger)
	if err := app.Start(fmt.Sprintf("%s:%d", option.Host, option.Port)); err != nil {
		log.Fatal(err)
	}
}

// registerLivenessProbe /healthz answers 200 only if both stores answer a ping
func registerLivenessProbe(app *echo.Echo, conn driver.ITransactionalDB, rdb driver.KeyValueDB) {
	app.GET("/healthz", func(c echo.Context) error {
		if err := conn.Ping(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, NewErrorEnvelope("database unreachable"))
		}
		if err := rdb.Ping(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, NewErrorEnvelope("kv store unreachable"))
		}
		return c.JSON(http.StatusOK, NewSuccessMessageEnvelope("ok"))
	})
}

func registerProfileEndpoints(app *echo.Echo, guards ...echo.MiddlewareFunc) {
	expvarHandler := expvar.Handler()
	app.GET("/debug/vars", func(c echo.Context) error {
		expvarHandler.ServeHTTP(c.Response().Writer, c.Request())
		return nil
	}, guards...)
	app.GET("/debug/pprof/*", func(c echo.Context) error {
		pprof.Index(c.Response().Writer, c.Request())
		return nil
	}, guards...)
}

func printRoutes(app *echo.Echo, logger *zap.Logger) {
	for _, route := range app.Routes() {
		if !strings.HasPrefix(route.Name, "github.com/labstack/echo") {
			name := route.Name
			trimIndex := strings.LastIndexByte(name, '/')
			logger.Debug("Registered route", zap.String("method", route.Method), zap.String("path", route.Path), zap.String("name", string(name[trimIndex+1:])))
		}
	}
}
