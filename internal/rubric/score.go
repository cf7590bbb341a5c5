package rubric

// CriterionState 单个评分项的勾选状态
type CriterionState struct {
	Checked bool `json:"checked"`
}

// SectionState 一次评分会话中某环节的状态，仅在会话期间存在，
// 入库前会被归约成百分比。
type SectionState struct {
	IncludeInGrading bool                      `json:"includeInGrading"`
	Criteria         map[string]CriterionState `json:"criteria"`
}

// SectionScore 计算单个环节得分（0-100）。
// 未纳入评分或目录中不存在的环节得 0 分；未勾选的评分项不从分母中剔除，
// 引用了目录中不存在的评分项视为未勾选，不报错（评分表演进后旧会话仍可提交）。
func (c Catalog) SectionScore(key string, state SectionState) float64 {
	if !state.IncludeInGrading {
		return 0
	}

	section, ok := c.Lookup(key)
	if !ok {
		return 0
	}

	possible := section.TotalPossiblePoints()
	if possible == 0 {
		return 0
	}

	earned := 0
	for _, item := range section.Items {
		if state.Criteria[item.ID].Checked {
			earned += item.MaxPoints
		}
	}

	return float64(earned) / float64(possible) * 100
}

// TotalScore 对所有已纳入评分的环节做无权算术平均。
// 没有纳入任何环节时得 0 分。标题上的 "10%" 展示权重不参与计算。
func (c Catalog) TotalScore(states map[string]SectionState) float64 {
	active := 0
	sum := 0.0
	for key, state := range states {
		if !state.IncludeInGrading {
			continue
		}
		active++
		sum += c.SectionScore(key, state)
	}

	if active == 0 {
		return 0
	}
	return sum / float64(active)
}

// SectionScores 计算提交中每个环节的得分
func (c Catalog) SectionScores(states map[string]SectionState) map[string]float64 {
	scores := make(map[string]float64, len(states))
	for key, state := range states {
		scores[key] = c.SectionScore(key, state)
	}
	return scores
}
