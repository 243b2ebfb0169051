package model

import (
	"encoding/json"
	"math"
	"sort"
	"time"
)

// UserProgress 每个用户唯一的进度聚合行，集合/映射字段以 JSON 文本存储
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID uint `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`

	SolvedProblems    json.RawMessage `gorm:"type:json" json:"solvedProblems"`    // ["two-sum", ...]
	AttemptedProblems json.RawMessage `gorm:"type:json" json:"attemptedProblems"` // solved 的超集
	TopicStats        json.RawMessage `gorm:"type:json" json:"topicStats"`        // {"Array": 3, ...}
	DifficultyStats   json.RawMessage `gorm:"type:json" json:"difficultyStats"`   // {"easy": 5, ...}
	LanguagesUsed     json.RawMessage `gorm:"type:json" json:"languagesUsed"`     // ["go","python"]
	Milestones        json.RawMessage `gorm:"type:json" json:"milestones"`        // ["profile_complete", ...]

	Accuracy         float64 `gorm:"default:0" json:"accuracy"` // 未取整比例，展示时四舍五入
	StudyTimeMinutes int     `gorm:"default:0" json:"studyTimeMinutes"`
	StreakDays       int     `gorm:"default:0" json:"streakDays"`
	WeeklyXP         int     `gorm:"default:0" json:"weeklyXp"`
	TotalXP          int     `gorm:"default:0" json:"totalXp"`

	FastestSolveSeconds   int     `gorm:"default:0" json:"fastestSolveSeconds"` // 0 表示尚无计时解题
	InterviewsCompleted   int     `gorm:"default:0" json:"interviewsCompleted"`
	BestInterviewScore    float64 `gorm:"default:0" json:"bestInterviewScore"`
	CompanyProblems       int     `gorm:"default:0" json:"companyProblems"`
	WeekendProblems       int     `gorm:"default:0" json:"weekendProblems"`
	EarlyBirdSolves       int     `gorm:"default:0" json:"earlyBirdSolves"`
	NightOwlSolves        int     `gorm:"default:0" json:"nightOwlSolves"`
	ContestsParticipated  int     `gorm:"default:0" json:"contestsParticipated"`
	BestContestPercentile float64 `gorm:"default:0" json:"bestContestPercentile"` // 0 表示未参赛
	ResumeScore           float64 `gorm:"default:0" json:"resumeScore"`
	ProfileViews          int     `gorm:"default:0" json:"profileViews"`
	StreakRestores        int     `gorm:"default:0" json:"streakRestores"`

	LastSolvedAt *time.Time `json:"lastSolvedAt"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// Snapshot 是 UserProgress 的解码视图，集合字段还原为内存结构
type Snapshot struct {
	UserID uint

	Solved          map[string]struct{}
	Attempted       map[string]struct{}
	TopicStats      map[string]int
	DifficultyStats map[string]int
	Languages       map[string]struct{}
	Milestones      map[string]struct{}

	Accuracy         float64
	StudyTimeMinutes int
	StreakDays       int
	WeeklyXP         int
	TotalXP          int

	FastestSolveSeconds   int
	InterviewsCompleted   int
	BestInterviewScore    float64
	CompanyProblems       int
	WeekendProblems       int
	EarlyBirdSolves       int
	NightOwlSolves        int
	ContestsParticipated  int
	BestContestPercentile float64
	ResumeScore           float64
	ProfileViews          int
	StreakRestores        int

	LastSolvedAt *time.Time
}

func NewSnapshot(userID uint) *Snapshot {
	return &Snapshot{
		UserID:          userID,
		Solved:          make(map[string]struct{}),
		Attempted:       make(map[string]struct{}),
		TopicStats:      make(map[string]int),
		DifficultyStats: make(map[string]int),
		Languages:       make(map[string]struct{}),
		Milestones:      make(map[string]struct{}),
	}
}

// DecodeSnapshot 将存储行解码为 Snapshot。
// 单个 JSON 字段解析失败时降级为空集合并记入返回的字段名列表，不会中断整体读取。
func DecodeSnapshot(row *UserProgress) (*Snapshot, []string) {
	s := NewSnapshot(row.UserID)
	var corrupt []string

	if !decodeStringSet(row.SolvedProblems, s.Solved) {
		corrupt = append(corrupt, "solved_problems")
	}
	if !decodeStringSet(row.AttemptedProblems, s.Attempted) {
		corrupt = append(corrupt, "attempted_problems")
	}
	if len(row.TopicStats) > 0 {
		if err := json.Unmarshal(row.TopicStats, &s.TopicStats); err != nil {
			s.TopicStats = make(map[string]int)
			corrupt = append(corrupt, "topic_stats")
		}
	}
	if len(row.DifficultyStats) > 0 {
		if err := json.Unmarshal(row.DifficultyStats, &s.DifficultyStats); err != nil {
			s.DifficultyStats = make(map[string]int)
			corrupt = append(corrupt, "difficulty_stats")
		}
	}
	if !decodeStringSet(row.LanguagesUsed, s.Languages) {
		corrupt = append(corrupt, "languages_used")
	}
	if !decodeStringSet(row.Milestones, s.Milestones) {
		corrupt = append(corrupt, "milestones")
	}

	s.Accuracy = row.Accuracy
	s.StudyTimeMinutes = row.StudyTimeMinutes
	s.StreakDays = row.StreakDays
	s.WeeklyXP = row.WeeklyXP
	s.TotalXP = row.TotalXP
	s.FastestSolveSeconds = row.FastestSolveSeconds
	s.InterviewsCompleted = row.InterviewsCompleted
	s.BestInterviewScore = row.BestInterviewScore
	s.CompanyProblems = row.CompanyProblems
	s.WeekendProblems = row.WeekendProblems
	s.EarlyBirdSolves = row.EarlyBirdSolves
	s.NightOwlSolves = row.NightOwlSolves
	s.ContestsParticipated = row.ContestsParticipated
	s.BestContestPercentile = row.BestContestPercentile
	s.ResumeScore = row.ResumeScore
	s.ProfileViews = row.ProfileViews
	s.StreakRestores = row.StreakRestores
	s.LastSolvedAt = row.LastSolvedAt

	return s, corrupt
}

// Encode 将 Snapshot 序列化回存储行，整行写回保证原子性
func (s *Snapshot) Encode(row *UserProgress) error {
	solved, err := json.Marshal(sortedKeys(s.Solved))
	if err != nil {
		return err
	}
	attempted, err := json.Marshal(sortedKeys(s.Attempted))
	if err != nil {
		return err
	}
	topics, err := json.Marshal(s.TopicStats)
	if err != nil {
		return err
	}
	difficulties, err := json.Marshal(s.DifficultyStats)
	if err != nil {
		return err
	}
	languages, err := json.Marshal(sortedKeys(s.Languages))
	if err != nil {
		return err
	}
	milestones, err := json.Marshal(sortedKeys(s.Milestones))
	if err != nil {
		return err
	}

	row.UserID = s.UserID
	row.SolvedProblems = solved
	row.AttemptedProblems = attempted
	row.TopicStats = topics
	row.DifficultyStats = difficulties
	row.LanguagesUsed = languages
	row.Milestones = milestones
	row.Accuracy = s.Accuracy
	row.StudyTimeMinutes = s.StudyTimeMinutes
	row.StreakDays = s.StreakDays
	row.WeeklyXP = s.WeeklyXP
	row.TotalXP = s.TotalXP
	row.FastestSolveSeconds = s.FastestSolveSeconds
	row.InterviewsCompleted = s.InterviewsCompleted
	row.BestInterviewScore = s.BestInterviewScore
	row.CompanyProblems = s.CompanyProblems
	row.WeekendProblems = s.WeekendProblems
	row.EarlyBirdSolves = s.EarlyBirdSolves
	row.NightOwlSolves = s.NightOwlSolves
	row.ContestsParticipated = s.ContestsParticipated
	row.BestContestPercentile = s.BestContestPercentile
	row.ResumeScore = s.ResumeScore
	row.ProfileViews = s.ProfileViews
	row.StreakRestores = s.StreakRestores
	row.LastSolvedAt = s.LastSolvedAt

	return nil
}

// DisplayAccuracy 展示用通过率，存储值不取整，仅渲染时四舍五入
func DisplayAccuracy(ratio float64) int {
	return int(math.Round(ratio))
}

// RecomputeAccuracy 重新计算通过率，分母为 0 时为 0
func (s *Snapshot) RecomputeAccuracy() {
	if len(s.Attempted) == 0 {
		s.Accuracy = 0
		return
	}
	s.Accuracy = float64(len(s.Solved)) / float64(len(s.Attempted)) * 100
}

func decodeStringSet(raw json.RawMessage, dst map[string]struct{}) bool {
	if len(raw) == 0 {
		return true
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return false
	}
	for _, item := range items {
		dst[item] = struct{}{}
	}
	return true
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	// 排序保证序列化结果稳定，便于对比与测试
	sort.Strings(keys)
	return keys
}
