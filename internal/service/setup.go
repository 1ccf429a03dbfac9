package service

import (
	"tg-gatekeeper/internal/config"
	"tg-gatekeeper/internal/logger"
	"tg-gatekeeper/internal/storage"
)

var (
	userRepository    *storage.UserRepository
	chatRepository    *storage.ChatRepository
	pendingRepository *storage.PendingRepository
	globalConfig      *config.Config
)

// Initialize initializes the service with configuration
func Initialize(cfg *config.Config) {
	globalConfig = cfg
}

// InitRepositories initializes the repositories and migrates their tables
func InitRepositories() {
	if storage.DB == nil {
		logger.Warningf("Database is not initialized, repositories unavailable")
		return
	}

	userRepository = storage.NewUserRepository(storage.DB)
	if err := userRepository.MigrateTable(); err != nil {
		logger.Warningf("Error migrating User table: %v", err)
	}

	chatRepository = storage.NewChatRepository(storage.DB)
	if err := chatRepository.MigrateTable(); err != nil {
		logger.Warningf("Error migrating Chat table: %v", err)
	}

	pendingRepository = storage.NewPendingRepository(storage.DB)
	if err := pendingRepository.MigrateTable(); err != nil {
		logger.Warningf("Error migrating PendingNotification table: %v", err)
	}
}
