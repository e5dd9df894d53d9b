// @title AstroLearn 后端 API
// @version 1.0
// @description AstroLearn 星际学习平台的进度与成就引擎。

// @contact.name API支持
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"astro_learn_backend/internal/app"
	"astro_learn_backend/internal/config"
	"astro_learn_backend/pkg/configwatcher"
	"astro_learn_backend/pkg/logger"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	// 配置文件热更新
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		if c, ok := newCfg.(*config.Config); ok {
			application.ReloadConfig(c)
		}
	})

	application.Run()
}
