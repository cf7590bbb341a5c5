package rubric

import "strings"

// Item 单个评分项
type Item struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MaxPoints int    `json:"maxPoints"`
}

// Section 评分表的一个环节。Key 是状态与目录之间的稳定标识，
// 不再依赖展示标题做前缀匹配。
type Section struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// TotalPossiblePoints 该环节满分，作为计分分母（与勾选数量无关）
func (s Section) TotalPossiblePoints() int {
	total := 0
	for _, item := range s.Items {
		total += item.MaxPoints
	}
	return total
}

// Catalog 进程启动时加载一次，之后只读
type Catalog []Section

// Lookup 按 Key 精确查找（不区分大小写）
func (c Catalog) Lookup(key string) (Section, bool) {
	for _, s := range c {
		if strings.EqualFold(s.Key, key) {
			return s, true
		}
	}
	return Section{}, false
}

// Keys 按目录顺序返回全部环节 Key
func (c Catalog) Keys() []string {
	keys := make([]string, len(c))
	for i, s := range c {
		keys[i] = s.Key
	}
	return keys
}

// Default 销售通话评分表。标题上的 "10%" 只是展示用权重，
// 总分计算对已纳入的环节做无权平均，与标签无关。
func Default() Catalog {
	return Catalog{
		{
			Key:   "intake",
			Title: "Intake (10%)",
			Items: []Item{
				{ID: "name_contact", Name: "Name/Contact Details (0-2 points)", MaxPoints: 2},
				{ID: "home_address", Name: "Home Address (0-2 points)", MaxPoints: 2},
				{ID: "email", Name: "Email for Recap (0-2 points)", MaxPoints: 2},
				{ID: "npn", Name: "NPN/Read About Company (0-2 points)", MaxPoints: 2},
				{ID: "picture", Name: "Picture/Text Contact (0-2 points)", MaxPoints: 2},
			},
		},
		{
			Key:   "eligibility",
			Title: "Eligibility (10%)",
			Items: []Item{
				{ID: "qualify", Name: "First Few Minutes Qualify (0-3 points)", MaxPoints: 3},
				{ID: "payment", Name: "Birth Date/Checking/Savings/Direct Express (0-4 points)", MaxPoints: 4},
				{ID: "reason", Name: "Recent Death/Replaced/Add On (0-3 points)", MaxPoints: 3},
			},
		},
		{
			Key:   "situation",
			Title: "Understanding the Situation (10%)",
			Items: []Item{
				{ID: "coverage_status", Name: "Coverage Now/Held/Back/Applied (0-4 points)", MaxPoints: 4},
				{ID: "beneficiary", Name: "Primary Beneficiary (0-3 points)", MaxPoints: 3},
				{ID: "coverage_type", Name: "Coverage Level/Funeral vs Legacy (0-3 points)", MaxPoints: 3},
			},
		},
		{
			Key:   "credibility",
			Title: "Credibility (10%)",
			Items: []Item{
				{ID: "location_rating", Name: "Austin TX & Charlotte NC/5-Star Google (0-4 points)", MaxPoints: 4},
				{ID: "bbb", Name: "A+ BBB Rating (0-3 points)", MaxPoints: 3},
				{ID: "verification", Name: "Government Lookup/NPN Verify (0-3 points)", MaxPoints: 3},
			},
		},
		{
			Key:   "luminaryIndex",
			Title: "Luminary Life Index (10%)",
			Items: []Item{
				{ID: "custom_plan", Name: "Build Custom Plan/Better Pricing (0-4 points)", MaxPoints: 4},
				{ID: "no_exam", Name: "No Medical Exam/3-5 Min Application (0-3 points)", MaxPoints: 3},
				{ID: "factors", Name: "Age/Gender/Tobacco/Health History (0-3 points)", MaxPoints: 3},
			},
		},
		{
			Key:   "underwriting",
			Title: "Underwriting (10%)",
			Items: []Item{
				{ID: "health_metrics", Name: "Tobacco/Height/Weight (0-5 points)", MaxPoints: 5},
				{ID: "questions", Name: "19 Questions (0-5 points)", MaxPoints: 5},
			},
		},
		{
			Key:   "education",
			Title: "Education (10%)",
			Items: []Item{
				{ID: "plan_types", Name: "Term/Permanent/10-20/20s,30s,40s/Over 50 (0-4 points)", MaxPoints: 4},
				{ID: "features", Name: "Payments Locked/Benefits Locked/Never Expire (0-3 points)", MaxPoints: 3},
				{ID: "budget_fit", Name: "Absolutely Fits Budget (0-3 points)", MaxPoints: 3},
			},
		},
		{
			Key:   "recap",
			Title: "Recap (10%)",
			Items: []Item{
				{ID: "understanding", Name: "Full Understanding of Situation (0-4 points)", MaxPoints: 4},
				{ID: "verify_details", Name: "Address/Birth Date/Coverage/Beneficiary (0-3 points)", MaxPoints: 3},
				{ID: "recommendation", Name: "Guarantee Trust Life Recommendation (0-3 points)", MaxPoints: 3},
			},
		},
		{
			Key:   "presentation",
			Title: "Presentation (10%)",
			Items: []Item{
				{ID: "coverage_levels", Name: "Different Coverage Levels (0-4 points)", MaxPoints: 4},
				{ID: "options", Name: "Option 1/Option 2/Option 3 (0-3 points)", MaxPoints: 3},
				{ID: "budget_comfort", Name: "Comfortable Budget Fit (0-3 points)", MaxPoints: 3},
			},
		},
		{
			Key:   "closing",
			Title: "The Close (10%)",
			Items: []Item{
				{ID: "comfort_level", Name: "Coverage Option Most Comfortable (0-5 points)", MaxPoints: 5},
				{ID: "final_steps", Name: "Application/Payment/Review (0-5 points)", MaxPoints: 5},
			},
		},
	}
}
