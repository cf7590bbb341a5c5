package service

import (
	"testing"

	"sales_coach_backend/internal/model"
	"sales_coach_backend/internal/rubric"
	"sales_coach_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGradeStore struct {
	created  []*model.CallGrade
	gradedBy []string
	err      error
}

func (f *fakeGradeStore) CreateWithRollup(grade *model.CallGrade, gradedBy string) error {
	if f.err != nil {
		return f.err
	}
	grade.ID = "grade-1"
	f.created = append(f.created, grade)
	f.gradedBy = append(f.gradedBy, gradedBy)
	return nil
}

func (f *fakeGradeStore) FindByFilter(filter model.GradeFilter) ([]model.CallGrade, error) {
	return nil, nil
}

func (f *fakeGradeStore) FindByID(id string) (*model.CallGrade, error) { return nil, nil }

func (f *fakeGradeStore) Delete(id string) error { return nil }

func (f *fakeGradeStore) GetAgentMetric(agentID uint) (*model.AgentMetric, error) {
	return nil, util.ErrGradeNotFound
}

type fakeUserStore struct {
	users map[uint]*model.User
}

func (f *fakeUserStore) FindByID(id uint) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, util.ErrUserNotFound
}

func (f *fakeUserStore) FindByRole(roles ...model.UserRole) ([]model.User, error) {
	return nil, nil
}

func newTestGradingService(store *fakeGradeStore, users *fakeUserStore) *GradingService {
	return NewGradingService(store, users, rubric.Default())
}

func coachClaims() *util.Claims {
	return &util.Claims{UserID: 2, Role: model.Coach, Email: "coach@example.com"}
}

func testUsers() *fakeUserStore {
	return &fakeUserStore{users: map[uint]*model.User{
		7: {Role: model.Agent},
		2: {Role: model.Coach, Location: "Austin", ReportsTo: 9},
	}}
}

func checked(ids ...string) rubric.SectionState {
	criteria := make(map[string]rubric.CriterionState, len(ids))
	for _, id := range ids {
		criteria[id] = rubric.CriterionState{Checked: true}
	}
	return rubric.SectionState{IncludeInGrading: true, Criteria: criteria}
}

func TestSubmitGradeRequiresAgent(t *testing.T) {
	store := &fakeGradeStore{}
	svc := newTestGradingService(store, testUsers())

	_, err := svc.SubmitGrade(coachClaims(), SubmitGradeRequest{})
	assert.ErrorIs(t, err, util.ErrAgentRequired)
	assert.Empty(t, store.created)
}

func TestSubmitGradeUnknownAgent(t *testing.T) {
	store := &fakeGradeStore{}
	svc := newTestGradingService(store, testUsers())

	_, err := svc.SubmitGrade(coachClaims(), SubmitGradeRequest{AgentID: 99})
	assert.ErrorIs(t, err, util.ErrAgentNotFound)
}

func TestSubmitGradeScoresAndDerivation(t *testing.T) {
	store := &fakeGradeStore{}
	svc := newTestGradingService(store, testUsers())

	result, err := svc.SubmitGrade(coachClaims(), SubmitGradeRequest{
		AgentID:  7,
		CallDate: "2024-03-04", // 周一
		Sections: map[string]rubric.SectionState{
			"intake":       checked("name_contact", "home_address", "email"),
			"underwriting": checked("health_metrics", "questions"),
			"presentation": {IncludeInGrading: false},
		},
		Notes:     "solid call",
		Strengths: "Great rapport",
	})
	require.NoError(t, err)

	assert.Equal(t, "grade-1", result.GradeID)
	assert.InDelta(t, 60.0, result.SectionScores["intake"], 1e-9)
	assert.InDelta(t, 100.0, result.SectionScores["underwriting"], 1e-9)
	assert.Zero(t, result.SectionScores["presentation"])
	assert.InDelta(t, 80.0, result.TotalScore, 1e-9)

	require.Len(t, store.created, 1)
	grade := store.created[0]
	assert.Equal(t, uint(7), grade.AgentID)
	assert.Equal(t, uint(2), grade.GraderID)
	assert.Equal(t, 10, grade.WeekNumber)
	assert.Equal(t, 2024, grade.Year)
	assert.Equal(t, 2, grade.Month) // 三月，0 起始
	assert.Equal(t, "Austin", grade.Location)
	assert.Equal(t, uint(9), grade.ManagerID)
	assert.Equal(t, "coach@example.com", store.gradedBy[0])
}

func TestSubmitGradeAdminContext(t *testing.T) {
	store := &fakeGradeStore{}
	svc := newTestGradingService(store, testUsers())
	admin := &util.Claims{UserID: 1, Role: model.Admin, Email: "admin@example.com"}

	_, err := svc.SubmitGrade(admin, SubmitGradeRequest{AgentID: 7, CallDate: "2024-03-04"})
	require.NoError(t, err)

	grade := store.created[0]
	// 管理员没有档案上下文，驻地兜底为 All，经理为本人
	assert.Equal(t, "All", grade.Location)
	assert.Equal(t, uint(1), grade.ManagerID)

	_, err = svc.SubmitGrade(admin, SubmitGradeRequest{AgentID: 7, CallDate: "2024-03-04", Location: "Charlotte"})
	require.NoError(t, err)
	assert.Equal(t, "Charlotte", store.created[1].Location)
}

func TestSubmitGradeCoachWithoutManagerFallsBack(t *testing.T) {
	store := &fakeGradeStore{}
	users := &fakeUserStore{users: map[uint]*model.User{
		7: {Role: model.Agent},
		3: {Role: model.Coach}, // 没有驻地也没有直属经理
	}}
	svc := newTestGradingService(store, users)
	grader := &util.Claims{UserID: 3, Role: model.Coach, Email: "c@example.com"}

	_, err := svc.SubmitGrade(grader, SubmitGradeRequest{AgentID: 7})
	require.NoError(t, err)

	grade := store.created[0]
	assert.Equal(t, "Unknown", grade.Location)
	assert.Equal(t, uint(3), grade.ManagerID)
}

func TestSubmitGradeBadDate(t *testing.T) {
	store := &fakeGradeStore{}
	svc := newTestGradingService(store, testUsers())

	_, err := svc.SubmitGrade(coachClaims(), SubmitGradeRequest{AgentID: 7, CallDate: "03/04/2024"})
	assert.ErrorIs(t, err, util.ErrBadCallDate)
	assert.Contains(t, err.Error(), "03/04/2024")
	assert.Empty(t, store.created)
}

func TestSubmitGradeStoreError(t *testing.T) {
	store := &fakeGradeStore{err: assert.AnError}
	svc := newTestGradingService(store, testUsers())

	_, err := svc.SubmitGrade(coachClaims(), SubmitGradeRequest{AgentID: 7})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSubmitGradeMalformedSections(t *testing.T) {
	store := &fakeGradeStore{}
	svc := newTestGradingService(store, testUsers())

	// 目录里不存在的环节和评分项不报错，按 0 分/未勾选处理
	result, err := svc.SubmitGrade(coachClaims(), SubmitGradeRequest{
		AgentID:  7,
		CallDate: "2024-03-04",
		Sections: map[string]rubric.SectionState{
			"objectionHandling": checked("nonexistent"),
			"intake":            checked("name_contact", "retired_item"),
		},
	})
	require.NoError(t, err)
	assert.Zero(t, result.SectionScores["objectionHandling"])
	assert.InDelta(t, 20.0, result.SectionScores["intake"], 1e-9)
	assert.InDelta(t, 10.0, result.TotalScore, 1e-9)
}
