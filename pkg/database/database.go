package database

import (
	"encoding/json"
	"fmt"
	"log"

	"placement_prep_backend/internal/config"
	"placement_prep_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if !migrate {
		return db, nil
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Problem{},
		&model.UserProgress{},
		&model.UserAchievement{},
		&model.Notification{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedProblems(db)

	return db, nil
}

// seedProblems 题库为空时写入一批常见题目镜像，方便本地联调
func seedProblems(db *gorm.DB) {
	var count int64
	db.Model(&model.Problem{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Problem{
		{Slug: "two-sum", Title: "Two Sum", Difficulty: model.DifficultyEasy,
			Topics:    json.RawMessage(`["Array","Hash Table"]`),
			Companies: json.RawMessage(`["Google","Amazon","Microsoft"]`)},
		{Slug: "valid-parentheses", Title: "Valid Parentheses", Difficulty: model.DifficultyEasy,
			Topics:    json.RawMessage(`["Stack","String"]`),
			Companies: json.RawMessage(`["Amazon","Meta"]`)},
		{Slug: "merge-two-sorted-lists", Title: "Merge Two Sorted Lists", Difficulty: model.DifficultyEasy,
			Topics:    json.RawMessage(`["Linked List","Recursion"]`),
			Companies: json.RawMessage(`["Microsoft","Apple"]`)},
		{Slug: "best-time-to-buy-and-sell-stock", Title: "Best Time to Buy and Sell Stock", Difficulty: model.DifficultyEasy,
			Topics:    json.RawMessage(`["Array","Dynamic Programming"]`),
			Companies: json.RawMessage(`["Amazon","Goldman Sachs"]`)},
		{Slug: "longest-substring-without-repeating-characters", Title: "Longest Substring Without Repeating Characters", Difficulty: model.DifficultyMedium,
			Topics:    json.RawMessage(`["Hash Table","String","Sliding Window"]`),
			Companies: json.RawMessage(`["Amazon","Meta","Bloomberg"]`)},
		{Slug: "three-sum", Title: "3Sum", Difficulty: model.DifficultyMedium,
			Topics:    json.RawMessage(`["Array","Two Pointers","Sorting"]`),
			Companies: json.RawMessage(`["Meta","Google"]`)},
		{Slug: "lru-cache", Title: "LRU Cache", Difficulty: model.DifficultyMedium,
			Topics:    json.RawMessage(`["Hash Table","Linked List","Design"]`),
			Companies: json.RawMessage(`["Amazon","Microsoft","Uber"]`)},
		{Slug: "coin-change", Title: "Coin Change", Difficulty: model.DifficultyMedium,
			Topics:    json.RawMessage(`["Array","Dynamic Programming","Breadth-First Search"]`),
			Companies: json.RawMessage(`["Amazon","Google"]`)},
		{Slug: "word-break", Title: "Word Break", Difficulty: model.DifficultyMedium,
			Topics:    json.RawMessage(`["Hash Table","String","Dynamic Programming"]`),
			Companies: json.RawMessage(`["Meta","Amazon"]`)},
		{Slug: "trapping-rain-water", Title: "Trapping Rain Water", Difficulty: model.DifficultyHard,
			Topics:    json.RawMessage(`["Array","Two Pointers","Dynamic Programming","Stack"]`),
			Companies: json.RawMessage(`["Google","Amazon","Goldman Sachs"]`)},
		{Slug: "median-of-two-sorted-arrays", Title: "Median of Two Sorted Arrays", Difficulty: model.DifficultyHard,
			Topics:    json.RawMessage(`["Array","Binary Search","Divide and Conquer"]`),
			Companies: json.RawMessage(`["Google","Apple"]`)},
		{Slug: "merge-k-sorted-lists", Title: "Merge k Sorted Lists", Difficulty: model.DifficultyHard,
			Topics:    json.RawMessage(`["Linked List","Divide and Conquer","Heap (Priority Queue)"]`),
			Companies: json.RawMessage(`["Amazon","Meta","Microsoft"]`)},
	}
	for i := range defaults {
		db.Create(&defaults[i])
	}
	log.Printf("Seeded %d problems", len(defaults))
}
