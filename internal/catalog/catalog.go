package catalog

import "fmt"

// Version 标识当前成就目录版本，目录只追加不删除，
// 删除已发布的成就会使已解锁记录成为孤儿
const Version = "2024.2"

type RequirementKind string

const (
	KindProblemsSolved        RequirementKind = "problems_solved"
	KindDifficulty            RequirementKind = "difficulty"
	KindStreak                RequirementKind = "streak"
	KindInterviewsCompleted   RequirementKind = "interviews_completed"
	KindInterviewScore        RequirementKind = "interview_score"
	KindTopic                 RequirementKind = "topic"
	KindSolveTime             RequirementKind = "solve_time"
	KindAccuracy              RequirementKind = "accuracy"
	KindStudyTime             RequirementKind = "study_time"
	KindCompanyProblems       RequirementKind = "company_problems"
	KindTotalXP               RequirementKind = "total_xp"
	KindLanguagesUsed         RequirementKind = "languages_used"
	KindResumeScore           RequirementKind = "resume_score"
	KindContestsParticipated  RequirementKind = "contests_participated"
	KindContestRankPercentile RequirementKind = "contest_rank_percentile"
	KindProfileViews          RequirementKind = "profile_views"
	KindMilestone             RequirementKind = "milestone"
	KindStreakRestore         RequirementKind = "streak_restore"
	KindWeekendProblems       RequirementKind = "weekend_problems"
	KindSolveHour             RequirementKind = "solve_hour"
)

// 聚合器按这两个小时界限归类清晨/深夜解题
const (
	EarlyBirdHour = 7
	NightOwlHour  = 22
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Requirement 成就解锁条件，按 Kind 解释各字段
type Requirement struct {
	Kind       RequirementKind `json:"kind"`
	Count      int             `json:"count,omitempty"`      // 计数类目标（题数/天数/小时/秒/XP）
	Score      float64         `json:"score,omitempty"`      // 分数/百分比阈值
	Topic      string          `json:"topic,omitempty"`      // topic 类条件的知识点名
	Difficulty string          `json:"difficulty,omitempty"` // difficulty 类条件的难度
	Name       string          `json:"name,omitempty"`       // milestone 类条件的标志名
	BeforeHour int             `json:"beforeHour,omitempty"` // solve_hour：在此小时之前解题
	AfterHour  int             `json:"afterHour,omitempty"`  // solve_hour：在此小时之后解题
}

// Definition 构建期创建，运行期不可变
type Definition struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Category    string      `json:"category"`
	Rarity      Rarity      `json:"rarity"`
	XPReward    int         `json:"xpReward"`
	Requirement Requirement `json:"requirement"`
}

// RarityStyle 前端展示用的稀有度样式元数据
type RarityStyle struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var rarityStyles = map[Rarity]RarityStyle{
	RarityCommon:    {Label: "Common", Color: "#9ca3af"},
	RarityRare:      {Label: "Rare", Color: "#3b82f6"},
	RarityEpic:      {Label: "Epic", Color: "#a855f7"},
	RarityLegendary: {Label: "Legendary", Color: "#f59e0b"},
}

func StyleFor(r Rarity) RarityStyle {
	if s, ok := rarityStyles[r]; ok {
		return s
	}
	return rarityStyles[RarityCommon]
}

// Catalog 进程启动时构建一次，注入到评估方，而非全局可变状态
type Catalog struct {
	defs []Definition
	byID map[string]Definition
}

func New(defs []Definition) (*Catalog, error) {
	byID := make(map[string]Definition, len(defs))
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("achievement definition missing id: %q", d.Name)
		}
		if _, dup := byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate achievement id: %s", d.ID)
		}
		if d.XPReward <= 0 {
			return nil, fmt.Errorf("achievement %s: xp reward must be positive", d.ID)
		}
		byID[d.ID] = d
	}
	return &Catalog{defs: defs, byID: byID}, nil
}

func MustNew(defs []Definition) *Catalog {
	c, err := New(defs)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

func (c *Catalog) Get(id string) (Definition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

func (c *Catalog) Len() int {
	return len(c.defs)
}

// Default 返回内置成就目录
func Default() *Catalog {
	return MustNew(defaultDefinitions)
}

var defaultDefinitions = []Definition{
	{
		ID: "first_blood", Name: "First Blood", Description: "Solve your first problem",
		Icon: "🩸", Category: "problems", Rarity: RarityCommon, XPReward: 25,
		Requirement: Requirement{Kind: KindProblemsSolved, Count: 1},
	},
	{
		ID: "problem_solver_10", Name: "Getting Warmed Up", Description: "Solve 10 problems",
		Icon: "🔥", Category: "problems", Rarity: RarityCommon, XPReward: 50,
		Requirement: Requirement{Kind: KindProblemsSolved, Count: 10},
	},
	{
		ID: "problem_solver_50", Name: "Problem Slayer", Description: "Solve 50 problems",
		Icon: "⚔️", Category: "problems", Rarity: RarityRare, XPReward: 150,
		Requirement: Requirement{Kind: KindProblemsSolved, Count: 50},
	},
	{
		ID: "problem_solver_200", Name: "Grinding Machine", Description: "Solve 200 problems",
		Icon: "🤖", Category: "problems", Rarity: RarityEpic, XPReward: 500,
		Requirement: Requirement{Kind: KindProblemsSolved, Count: 200},
	},
	{
		ID: "hard_hitter", Name: "Hard Hitter", Description: "Solve 10 hard problems",
		Icon: "💪", Category: "problems", Rarity: RarityEpic, XPReward: 300,
		Requirement: Requirement{Kind: KindDifficulty, Difficulty: "hard", Count: 10},
	},
	{
		ID: "medium_rare", Name: "Medium Rare", Description: "Solve 25 medium problems",
		Icon: "🥩", Category: "problems", Rarity: RarityRare, XPReward: 150,
		Requirement: Requirement{Kind: KindDifficulty, Difficulty: "medium", Count: 25},
	},
	{
		ID: "week_streak", Name: "Consistency", Description: "Keep a 7-day solving streak",
		Icon: "📅", Category: "streak", Rarity: RarityCommon, XPReward: 75,
		Requirement: Requirement{Kind: KindStreak, Count: 7},
	},
	{
		ID: "month_streak", Name: "Unstoppable", Description: "Keep a 30-day solving streak",
		Icon: "🚀", Category: "streak", Rarity: RarityEpic, XPReward: 400,
		Requirement: Requirement{Kind: KindStreak, Count: 30},
	},
	{
		ID: "comeback_kid", Name: "Comeback Kid", Description: "Restore a streak of 7 days or longer",
		Icon: "🔁", Category: "streak", Rarity: RarityRare, XPReward: 100,
		Requirement: Requirement{Kind: KindStreakRestore, Count: 7},
	},
	{
		ID: "interview_rookie", Name: "Interview Rookie", Description: "Complete your first mock interview",
		Icon: "🎤", Category: "interviews", Rarity: RarityCommon, XPReward: 50,
		Requirement: Requirement{Kind: KindInterviewsCompleted, Count: 1},
	},
	{
		ID: "interview_veteran", Name: "Interview Veteran", Description: "Complete 10 mock interviews",
		Icon: "🎓", Category: "interviews", Rarity: RarityRare, XPReward: 200,
		Requirement: Requirement{Kind: KindInterviewsCompleted, Count: 10},
	},
	{
		ID: "interview_ace", Name: "Interview Ace", Description: "Score 90 or above in a mock interview",
		Icon: "🏆", Category: "interviews", Rarity: RarityEpic, XPReward: 300,
		Requirement: Requirement{Kind: KindInterviewScore, Score: 90},
	},
	{
		ID: "array_apprentice", Name: "Array Apprentice", Description: "Solve 15 array problems",
		Icon: "🧮", Category: "topics", Rarity: RarityCommon, XPReward: 75,
		Requirement: Requirement{Kind: KindTopic, Topic: "Array", Count: 15},
	},
	{
		ID: "dp_dominator", Name: "DP Dominator", Description: "Solve 20 dynamic programming problems",
		Icon: "🧠", Category: "topics", Rarity: RarityEpic, XPReward: 350,
		Requirement: Requirement{Kind: KindTopic, Topic: "Dynamic Programming", Count: 20},
	},
	{
		ID: "speed_demon", Name: "Speed Demon", Description: "Solve a problem in under 10 minutes",
		Icon: "⚡", Category: "problems", Rarity: RarityRare, XPReward: 150,
		Requirement: Requirement{Kind: KindSolveTime, Count: 600},
	},
	{
		ID: "sharpshooter", Name: "Sharpshooter", Description: "Reach 80% accuracy over at least 50 submissions",
		Icon: "🎯", Category: "problems", Rarity: RarityEpic, XPReward: 300,
		Requirement: Requirement{Kind: KindAccuracy, Score: 80, Count: 50},
	},
	{
		ID: "marathon_learner", Name: "Marathon Learner", Description: "Log 50 hours of study time",
		Icon: "⏳", Category: "study", Rarity: RarityRare, XPReward: 200,
		Requirement: Requirement{Kind: KindStudyTime, Count: 50},
	},
	{
		ID: "company_hunter", Name: "Company Hunter", Description: "Solve 25 problems tagged by your target companies",
		Icon: "🏢", Category: "placement", Rarity: RarityRare, XPReward: 200,
		Requirement: Requirement{Kind: KindCompanyProblems, Count: 25},
	},
	{
		ID: "xp_collector", Name: "XP Collector", Description: "Earn 1,000 total XP",
		Icon: "💎", Category: "progress", Rarity: RarityCommon, XPReward: 100,
		Requirement: Requirement{Kind: KindTotalXP, Count: 1000},
	},
	{
		ID: "xp_hoarder", Name: "XP Hoarder", Description: "Earn 10,000 total XP",
		Icon: "👑", Category: "progress", Rarity: RarityLegendary, XPReward: 1000,
		Requirement: Requirement{Kind: KindTotalXP, Count: 10000},
	},
	{
		ID: "polyglot", Name: "Polyglot", Description: "Solve problems in 3 different languages",
		Icon: "🌐", Category: "problems", Rarity: RarityRare, XPReward: 150,
		Requirement: Requirement{Kind: KindLanguagesUsed, Count: 3},
	},
	{
		ID: "resume_ready", Name: "Resume Ready", Description: "Get a resume score of 85 or above",
		Icon: "📄", Category: "placement", Rarity: RarityRare, XPReward: 150,
		Requirement: Requirement{Kind: KindResumeScore, Score: 85},
	},
	{
		ID: "contest_debut", Name: "Contest Debut", Description: "Participate in your first contest",
		Icon: "🏁", Category: "contests", Rarity: RarityCommon, XPReward: 50,
		Requirement: Requirement{Kind: KindContestsParticipated, Count: 1},
	},
	{
		ID: "top_percentile", Name: "Cream of the Crop", Description: "Finish a contest in the top 10%",
		Icon: "🥇", Category: "contests", Rarity: RarityLegendary, XPReward: 800,
		Requirement: Requirement{Kind: KindContestRankPercentile, Score: 10},
	},
	{
		ID: "in_demand", Name: "In Demand", Description: "Get 100 profile views from recruiters",
		Icon: "👀", Category: "placement", Rarity: RarityRare, XPReward: 150,
		Requirement: Requirement{Kind: KindProfileViews, Count: 100},
	},
	{
		ID: "profile_complete", Name: "All Set", Description: "Complete your placement profile",
		Icon: "✅", Category: "placement", Rarity: RarityCommon, XPReward: 25,
		Requirement: Requirement{Kind: KindMilestone, Name: "profile_complete"},
	},
	{
		ID: "weekend_warrior", Name: "Weekend Warrior", Description: "Solve 20 problems on weekends",
		Icon: "🛡️", Category: "problems", Rarity: RarityRare, XPReward: 150,
		Requirement: Requirement{Kind: KindWeekendProblems, Count: 20},
	},
	{
		ID: "early_bird", Name: "Early Bird", Description: "Solve a problem before 7 AM",
		Icon: "🌅", Category: "problems", Rarity: RarityCommon, XPReward: 50,
		Requirement: Requirement{Kind: KindSolveHour, BeforeHour: EarlyBirdHour},
	},
	{
		ID: "night_owl", Name: "Night Owl", Description: "Solve a problem after 10 PM",
		Icon: "🦉", Category: "problems", Rarity: RarityCommon, XPReward: 50,
		Requirement: Requirement{Kind: KindSolveHour, AfterHour: NightOwlHour},
	},
}
