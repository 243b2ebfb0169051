package catalog

import (
	"math"

	"placement_prep_backend/internal/model"
)

// Evaluation 单个成就对单份进度快照的评估结果
type Evaluation struct {
	Unlocked bool
	Progress int // 0-100，展示用
}

// evalFunc 返回 (是否满足, 当前值, 目标值)；target<=0 表示布尔型条件
type evalFunc func(req Requirement, s *model.Snapshot) (met bool, current, target float64)

var evaluators = map[RequirementKind]evalFunc{
	KindProblemsSolved: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		n := float64(len(s.Solved))
		return n >= float64(req.Count), n, float64(req.Count)
	},
	KindDifficulty: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		n := float64(s.DifficultyStats[req.Difficulty])
		return n >= float64(req.Count), n, float64(req.Count)
	},
	KindStreak: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		n := float64(s.StreakDays)
		return n >= float64(req.Count), n, float64(req.Count)
	},
	KindInterviewsCompleted: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		n := float64(s.InterviewsCompleted)
		return n >= float64(req.Count), n, float64(req.Count)
	},
	KindInterviewScore: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		return s.BestInterviewScore >= req.Score, 0, 0
	},
	KindTopic: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		n := float64(s.TopicStats[req.Topic])
		return n >= float64(req.Count), n, float64(req.Count)
	},
	KindSolveTime: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		return s.FastestSolveSeconds > 0 && s.FastestSolveSeconds <= req.Count, 0, 0
	},
	KindAccuracy: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		// 比较用未取整比例，且提交数必须达到样本下限
		return s.Accuracy >= req.Score && len(s.Attempted) >= req.Count, 0, 0
	},
	KindStudyTime: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		// Count 以小时计，存储以分钟计
		n := float64(s.StudyTimeMinutes)
		target := float64(req.Count * 60)
		return n >= target, n, target
	},
	KindCompanyProblems: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		n := float64(s.CompanyProblems)
		return n >= float64(req.Count), n, float64(req.Count)
	},
	KindTotalXP: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		n := float64(s.TotalXP)
		return n >= float64(req.Count), n, float64(req.Count)
	},
	KindLanguagesUsed: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		n := float64(len(s.Languages))
		return n >= float64(req.Count), n, float64(req.Count)
	},
	KindResumeScore: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		return s.ResumeScore >= req.Score, 0, 0
	},
	KindContestsParticipated: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		n := float64(s.ContestsParticipated)
		return n >= float64(req.Count), n, float64(req.Count)
	},
	KindContestRankPercentile: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		// 百分位越小越好，0 表示从未参赛
		met := s.ContestsParticipated > 0 && s.BestContestPercentile > 0 && s.BestContestPercentile <= req.Score
		return met, 0, 0
	},
	KindProfileViews: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		n := float64(s.ProfileViews)
		return n >= float64(req.Count), n, float64(req.Count)
	},
	KindMilestone: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		_, ok := s.Milestones[req.Name]
		return ok, 0, 0
	},
	KindStreakRestore: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		return s.StreakRestores > 0 && s.StreakDays >= req.Count, 0, 0
	},
	KindWeekendProblems: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		n := float64(s.WeekendProblems)
		return n >= float64(req.Count), n, float64(req.Count)
	},
	KindSolveHour: func(req Requirement, s *model.Snapshot) (bool, float64, float64) {
		if req.BeforeHour > 0 {
			return s.EarlyBirdSolves >= 1, 0, 0
		}
		if req.AfterHour > 0 {
			return s.NightOwlSolves >= 1, 0, 0
		}
		return false, 0, 0
	},
}

// Evaluate 对任意快照全函数求值：未知条件类型视为未满足而不是报错，
// 保证目录升级加入新类型时旧评估方仍能工作
func Evaluate(def Definition, s *model.Snapshot) Evaluation {
	eval, ok := evaluators[def.Requirement.Kind]
	if !ok {
		return Evaluation{Unlocked: false, Progress: 0}
	}
	met, current, target := eval(def.Requirement, s)
	return Evaluation{Unlocked: met, Progress: progressPercent(met, current, target)}
}

// EvaluateAll 返回每个成就的评估结果，键为成就 ID
func (c *Catalog) EvaluateAll(s *model.Snapshot) map[string]Evaluation {
	out := make(map[string]Evaluation, len(c.defs))
	for _, def := range c.defs {
		out[def.ID] = Evaluate(def, s)
	}
	return out
}

func progressPercent(met bool, current, target float64) int {
	if met {
		return 100
	}
	if target <= 0 {
		// 布尔型条件只有 0/100 两档
		return 0
	}
	p := int(math.Round(current / target * 100))
	if p > 100 {
		p = 100
	}
	if p < 0 {
		p = 0
	}
	return p
}
