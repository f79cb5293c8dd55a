package main

import (
	"log"

	"github.com/devtrail/devtrail/internal/catalog"
	"github.com/devtrail/devtrail/internal/friendship"
	infra "github.com/devtrail/devtrail/internal/infrastructure"
	"github.com/devtrail/devtrail/internal/infrastructure/driver"
	"github.com/devtrail/devtrail/internal/infrastructure/logging"
	"github.com/devtrail/devtrail/internal/infrastructure/uuid"
	ihttp "github.com/devtrail/devtrail/internal/interfaces/http"
	"github.com/devtrail/devtrail/internal/notification"
	"github.com/devtrail/devtrail/internal/progress"
	"github.com/devtrail/devtrail/internal/user"
	"go.uber.org/zap"
)

func main() {
	log.SetFlags(log.Lshortfile | log.Ldate | log.Ltime)
	option, err := infra.InitConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(&logging.Config{
		FilePath: option.Logging.FilePath,
		Level:    option.Logging.Level,
		AppID:    option.AppID,
		Env:      option.Env,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %s\n", err)
	}
	logger = logger.With(
		zap.String("service.id", option.AppID),
	)
	defer logger.Sync()

	dbConn, err := driver.GetDBConnection(&driver.DBConfig{
		User:     option.Database.User,
		Password: option.Database.Password,
		MaxConn:  option.Database.MaxConn,
		Protocol: option.Database.Protocol,
		Driver:   option.Database.Driver,
		Host:     option.Database.Host,
		Port:     option.Database.Port,
		Query:    option.Database.Query,
		Schema:   option.Database.Schema,
	})
	if err != nil {
		log.Fatalf("Failed to create DB connection: %s\n", err)
	}
	logger.Debug("Create db connection instance", zap.String("db.driver", option.Database.Driver),
		zap.String("db.schema", option.Database.Schema),
		zap.String("db.host", option.Database.Host),
		zap.Any("config", option.Database),
	)

	rdb := driver.NewRedisClient(option.KVStore.Host, option.KVStore.Port, option.KVStore.Password)

	UUIDGenerator := uuid.NewNanoIDGenerator(option.Security.IDLength)
	UserRepo := user.NewUserRepository(dbConn, UUIDGenerator)
	UserUseCase := user.NewUserUseCase(UserRepo, option.Security.MaxLoginAttempts)

	CatalogRepo := catalog.NewCatalogRepository(dbConn)
	CatalogUseCase := catalog.NewCatalogUseCase(CatalogRepo)

	ProgressRepo := progress.NewProgressRepository(dbConn, UUIDGenerator)
	ProgressUseCase := progress.NewProgressUseCase(CatalogRepo, ProgressRepo)

	NotificationRepo := notification.NewNotificationRepository(dbConn)
	NotificationUseCase := notification.NewNotificationUseCase(NotificationRepo)

	FriendshipRepo := friendship.NewFriendshipRepository(dbConn)
	FriendshipUseCase := friendship.NewFriendshipUseCase(FriendshipRepo, NotificationRepo, UUIDGenerator)

	ihttp.Serve(option, logger, dbConn, rdb,
		UserUseCase, CatalogUseCase, ProgressUseCase,
		FriendshipUseCase, NotificationUseCase)
}
