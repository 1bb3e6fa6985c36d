/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、档案加载、Redis连接等初始化工作
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 应用启动时执行初始化流程
 * @rules 确保所有依赖服务正常启动后才提供API服务
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres, gorm.io/driver/sqlite
 * @refs main.go, api/routes.go
 */

package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"batimento-service/client/connectors"
	"batimento-service/service/config"
	"batimento-service/service/identity"
	"batimento-service/service/models"
	"batimento-service/service/runledger"
	"batimento-service/service/scheduler"
)

var (
	DB                     *gorm.DB
	GlobalProfileStore     *config.ProfileStore
	GlobalRedisConnector   *connectors.RedisConnector
	GlobalIdentityProvider *identity.Provider
	GlobalRunLedger        *runledger.Service
	GlobalBatimentoService *BatimentoService
	GlobalApiKeyService    *ApiKeyService
	GlobalSchedulerService *scheduler.SchedulerService
)

func init() {
	initDatabase()
	runMigrations()
	initServices()
}

// initDatabase 初始化数据库连接，无Postgres配置时回退到本地SQLite文件
func initDatabase() {
	var err error

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		DB, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	} else if os.Getenv("DB_HOST") != "" {
		host := os.Getenv("DB_HOST")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "")
		dbname := getEnvWithDefault("DB_NAME", "batimento")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")

		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=America/Sao_Paulo",
			host, port, user, password, dbname, sslmode)
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		path := getEnvWithDefault("SQLITE_PATH", "batimento.db")
		DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("数据库连接成功")
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// runMigrations 运行数据库迁移
func runMigrations() {
	log.Println("开始运行数据库迁移...")

	if err := DB.AutoMigrate(
		&models.ReconciliationRun{},
		&models.ApiKey{},
	); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	log.Println("数据库表结构迁移完成")
}

// initServices 初始化服务
func initServices() {
	// 加载对账档案
	GlobalProfileStore = config.NewProfileStore(getEnvWithDefault("PROFILES_DIR", "profiles"))
	if err := GlobalProfileStore.Load(); err != nil {
		log.Fatalf("加载对账档案失败: %v", err)
	}

	// Redis连接可选，只有配置了地址才建立
	if address := os.Getenv("REDIS_ADDRESS"); address != "" {
		GlobalRedisConnector = connectors.NewRedisConnector(&connectors.RedisConfig{
			Address:     address,
			Password:    os.Getenv("REDIS_PASSWORD"),
			DialTimeout: 5 * time.Second,
			ReadTimeout: 10 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := GlobalRedisConnector.Connect(ctx); err != nil {
			log.Fatalf("Redis连接失败: %v", err)
		}
	}

	GlobalIdentityProvider = identity.NewProvider(GlobalRedisConnector)
	GlobalRunLedger = runledger.NewService(DB)
	GlobalBatimentoService = NewBatimentoService(
		GlobalProfileStore,
		GlobalIdentityProvider,
		GlobalRunLedger,
		getEnvWithDefault("OUTPUT_DIR", "output"),
	)

	GlobalApiKeyService = NewApiKeyService(DB)

	// 启动调度器
	GlobalSchedulerService = scheduler.NewSchedulerService(GlobalBatimentoService, GlobalProfileStore)
	if err := GlobalSchedulerService.Start(); err != nil {
		log.Printf("启动调度器服务失败: %v", err)
	}

	log.Println("服务初始化完成")
}
