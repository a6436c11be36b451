// @title TutaLearn 后端 API
// @version 1.0
// @description TutaLearn 学习平台的后端服务器：双语课程、学习进度、连续学习天数与 AI 助教 Tuta。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"
	"tutalearn_backend/internal/app"
	"tutalearn_backend/internal/config"
	"tutalearn_backend/pkg/logger"
)

const configDir = "configs"

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	seed := flag.Bool("seed", false, "表为空时写入默认科目和示例课程")
	flag.Parse()

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly
	cfg.Seed = *seed

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	application.Run(configDir)
}
