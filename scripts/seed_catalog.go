// 手动导入演示内容目录（星球/关卡/题目）
//
// 引擎本身不维护内容，正式环境由内容端写库。此脚本用于本地开发和演示，
// 可重复执行，已存在的条目按标题跳过。
//
// 用法: go run scripts/seed_catalog.go

package main

import (
	"log"
	"os"

	"astro_learn_backend/internal/config"
	"astro_learn_backend/internal/model"
	"astro_learn_backend/pkg/database"
	"astro_learn_backend/pkg/logger"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
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

	if err := seed(db); err != nil {
		log.Fatalf("导入失败: %v", err)
	}
	log.Println("演示目录导入完成")
}

type exerciseSeed struct {
	question  string
	exType    string
	answer    string
	points    int
	timeLimit int
	optionA   string
	optionB   string
	optionC   string
	optionD   string
}

func seed(db *gorm.DB) error {
	planets := []struct {
		title  string
		order  int
		levels []struct {
			title     string
			order     int
			exercises []exerciseSeed
		}
	}{
		{
			title: "水星：数感启航", order: 1,
			levels: []struct {
				title     string
				order     int
				exercises []exerciseSeed
			}{
				{
					title: "加法轨道", order: 1,
					exercises: []exerciseSeed{
						{question: "3 + 4 = ?", exType: model.ExerciseTypeNumeric, answer: "7", points: 10, timeLimit: 30},
						{question: "12 + 9 = ?", exType: model.ExerciseTypeNumeric, answer: "21", points: 10, timeLimit: 30},
					},
				},
				{
					title: "减法轨道", order: 2,
					exercises: []exerciseSeed{
						{question: "15 - 6 = ?", exType: model.ExerciseTypeNumeric, answer: "9", points: 10, timeLimit: 30},
						{
							question: "哪个结果更大？", exType: model.ExerciseTypeMultipleChoice, answer: "a", points: 10,
							optionA: "20 - 3", optionB: "20 - 5", optionC: "20 - 8", optionD: "20 - 13",
						},
					},
				},
			},
		},
		{
			title: "金星：逻辑星云", order: 2,
			levels: []struct {
				title     string
				order     int
				exercises []exerciseSeed
			}{
				{
					title: "真假判断", order: 1,
					exercises: []exerciseSeed{
						{question: "0 是偶数。", exType: model.ExerciseTypeTrueFalse, answer: "true", points: 15},
						{question: "所有质数都是奇数。", exType: model.ExerciseTypeTrueFalse, answer: "false", points: 15, timeLimit: 20},
					},
				},
			},
		},
	}

	for _, p := range planets {
		planet := model.Planet{Title: p.title, OrderIndex: p.order, IsActive: true}
		if err := db.Where("title = ?", p.title).FirstOrCreate(&planet).Error; err != nil {
			return err
		}
		for _, l := range p.levels {
			level := model.Level{PlanetID: planet.ID, Title: l.title, OrderIndex: l.order, IsActive: true}
			if err := db.Where("planet_id = ? AND title = ?", planet.ID, l.title).FirstOrCreate(&level).Error; err != nil {
				return err
			}
			for _, e := range l.exercises {
				exercise := model.Exercise{
					LevelID:       level.ID,
					Question:      e.question,
					Type:          e.exType,
					Points:        e.points,
					TimeLimit:     e.timeLimit,
					OptionA:       e.optionA,
					OptionB:       e.optionB,
					OptionC:       e.optionC,
					OptionD:       e.optionD,
					CorrectAnswer: e.answer,
					IsActive:      true,
				}
				if err := db.Where("level_id = ? AND question = ?", level.ID, e.question).FirstOrCreate(&exercise).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}
