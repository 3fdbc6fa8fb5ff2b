// 手动补齐例句向量
//
// 新生成的例句会在入库时同步生成向量；导入的人工例句或模型调用失败遗留的例句需要此脚本补齐。
// 仅 postgres（pgvector）可用。
//
// 用法: go run scripts/backfill_embeddings.go -batch 50

package main

import (
	"context"
	"flag"
	"log"
	"vocab_drill_backend/internal/config"
	"vocab_drill_backend/internal/model"
	"vocab_drill_backend/internal/repository"
	"vocab_drill_backend/internal/service"
	"vocab_drill_backend/pkg/database"
	"vocab_drill_backend/pkg/logger"
)

func main() {
	configDir := flag.String("config-dir", "configs", "配置文件目录")
	batch := flag.Int("batch", 50, "每批数量")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	if !database.SupportsVectors(db) {
		log.Fatalf("当前数据库 %s 不支持向量检索", cfg.Database.Driver)
	}

	aiService := service.NewAIService(cfg.AI)
	sentenceRepo := repository.NewSentenceRepository(db)
	sentences := service.NewSentenceService(sentenceRepo, aiService, aiService, 0, 0)

	ctx := context.Background()
	total := 0
	for {
		rows, err := sentenceRepo.FindWithoutEmbedding(*batch)
		if err != nil {
			log.Fatalf("查询例句失败: %v", err)
		}
		if len(rows) == 0 {
			break
		}
		ptrs := make([]*model.Sentence, len(rows))
		for i := range rows {
			ptrs[i] = &rows[i]
		}
		stored, err := sentences.BackfillEmbeddings(ctx, ptrs)
		total += stored
		if err != nil {
			log.Fatalf("写入向量失败（已完成 %d 条）: %v", total, err)
		}
		if stored == 0 {
			break
		}
		log.Printf("已处理 %d 条", total)
	}
	log.Printf("完成！共写入 %d 条向量", total)
}
