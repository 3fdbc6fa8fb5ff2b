// @title Vocab Drill 后端 API
// @version 1.0
// @description 法语词汇间隔复习与填空练习服务。
// @termsOfService http://swagger.io/terms/

// @contact.name API支持
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"fmt"
	"log"
	"os"
	"time"
	"vocab_drill_backend/internal/app"
	"vocab_drill_backend/internal/config"
	"vocab_drill_backend/internal/repository"
	"vocab_drill_backend/internal/service"
	"vocab_drill_backend/internal/util"
	"vocab_drill_backend/pkg/database"
	"vocab_drill_backend/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configDir   string
	migrate     bool
	migrateOnly bool

	seedFile string

	tokenSubject string
	tokenRole    string
	tokenTTL     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "vocab-drill",
	Short: "French vocabulary drill server",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// 设置迁移标志
		cfg.ForceMigrate = migrate || migrateOnly
		cfg.MigrateOnly = migrateOnly

		application := app.NewApp(cfg, configDir)
		defer logger.Log.Sync()

		// 迁移完成后直接退出
		if migrateOnly {
			logger.Log.Info("Database migration finished, exiting")
			return nil
		}

		application.Run()
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import vocabulary from a .yaml or .xlsx file",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// 导入前总是确保表结构存在
		cfg.ForceMigrate = true
		logger.InitLogger(cfg)
		defer logger.Log.Sync()

		entries, err := service.LoadVocabularyFile(seedFile)
		if err != nil {
			return err
		}

		db, err := database.InitDB(cfg)
		if err != nil {
			return err
		}
		catalog := service.NewCatalogService(
			db,
			repository.NewWordRepository(db),
			repository.NewMemoryRepository(db),
			repository.NewSentenceRepository(db),
		)
		report, err := catalog.Seed(entries)
		if err != nil {
			return err
		}

		logger.Log.Info("Seed finished",
			zap.String("file", seedFile),
			zap.Int("entries", len(entries)),
			zap.Int("wordsCreated", report.WordsCreated),
			zap.Int("wordsUpdated", report.WordsUpdated),
			zap.Int("memoryCreated", report.MemoryCreated),
			zap.Int("sentencesCreated", report.SentencesCreated),
		)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a signed JWT for the admin API",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is not configured")
		}

		ttl := tokenTTL
		if ttl <= 0 {
			ttl = cfg.JWT.ExpireTime
		}
		token, err := util.GenerateJWT(tokenSubject, tokenRole, cfg.JWT.Secret, ttl)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "configs", "配置文件目录")
	rootCmd.Flags().BoolVar(&migrate, "migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	rootCmd.Flags().BoolVar(&migrateOnly, "migrate-only", false, "只执行数据库迁移，完成后退出")

	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "configs/vocabulary.yaml", "词库文件（.yaml / .xlsx）")

	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "令牌主体")
	tokenCmd.Flags().StringVar(&tokenRole, "role", util.RoleAdmin, "令牌角色")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "有效期，默认使用 jwt.expire_hours")

	rootCmd.AddCommand(seedCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
