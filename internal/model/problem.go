package model

import "encoding/json"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Problem 题目目录镜像，由外部题库同步，引擎只读
type Problem struct {
	BaseModel
	Slug       string          `gorm:"size:150;uniqueIndex;not null" json:"slug"`
	Title      string          `gorm:"size:255;not null" json:"title"`
	Difficulty Difficulty      `gorm:"type:enum('easy','medium','hard');default:'easy'" json:"difficulty"`
	Topics     json.RawMessage `gorm:"type:json" json:"topics"`    // ["Array","Hash Table"]
	Companies  json.RawMessage `gorm:"type:json" json:"companies"` // ["Google","Amazon"]
}

func (Problem) TableName() string {
	return "problems"
}

// TopicTags 解析题目的知识点标签，解析失败时返回空列表
func (p *Problem) TopicTags() []string {
	var tags []string
	if len(p.Topics) == 0 {
		return tags
	}
	if err := json.Unmarshal(p.Topics, &tags); err != nil {
		return nil
	}
	return tags
}

// CompanyTags 解析题目的公司标签，解析失败时返回空列表
func (p *Problem) CompanyTags() []string {
	var tags []string
	if len(p.Companies) == 0 {
		return tags
	}
	if err := json.Unmarshal(p.Companies, &tags); err != nil {
		return nil
	}
	return tags
}
