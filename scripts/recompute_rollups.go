// 手动触发坐席汇总重算脚本
//
// 删除成绩记录不会同步扣减 agent_metrics（删除是低频管理操作），
// 批量清理后运行该脚本从 call_grades 全量重算汇总。
//
// 用法: go run scripts/recompute_rollups.go

package main

import (
	"log"
	"os"

	"sales_coach_backend/internal/config"
	"sales_coach_backend/internal/repository"
	"sales_coach_backend/pkg/database"
	"sales_coach_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	gradeRepo := repository.NewGradeRepository(db)

	log.Println("开始重算坐席汇总...")
	if err := gradeRepo.RecomputeRollups(); err != nil {
		log.Fatalf("重算失败: %v", err)
	}
	log.Println("完成！")
}
