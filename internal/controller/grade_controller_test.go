package controller

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"sales_coach_backend/internal/model"
	"sales_coach_backend/internal/rubric"
	"sales_coach_backend/internal/service"
	"sales_coach_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGradeStore struct {
	created int
}

func (s *stubGradeStore) CreateWithRollup(grade *model.CallGrade, gradedBy string) error {
	grade.ID = "grade-1"
	s.created++
	return nil
}

func (s *stubGradeStore) FindByFilter(filter model.GradeFilter) ([]model.CallGrade, error) {
	return nil, nil
}

func (s *stubGradeStore) FindByID(id string) (*model.CallGrade, error) { return nil, nil }

func (s *stubGradeStore) Delete(id string) error { return nil }

func (s *stubGradeStore) GetAgentMetric(agentID uint) (*model.AgentMetric, error) {
	return nil, util.ErrGradeNotFound
}

type stubUserStore struct{}

func (s *stubUserStore) FindByID(id uint) (*model.User, error) {
	return &model.User{Role: model.Agent}, nil
}

func (s *stubUserStore) FindByRole(roles ...model.UserRole) ([]model.User, error) {
	return nil, nil
}

func newGradeTestRouter(store *stubGradeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := service.NewGradingService(store, &stubUserStore{}, rubric.Default())
	ctrl := NewGradeController(svc)

	router := gin.New()
	router.POST("/grades", func(ctx *gin.Context) {
		ctx.Set("user", &util.Claims{UserID: 2, Role: model.Coach, Email: "coach@example.com"})
		ctrl.SubmitGrade(ctx)
	})
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// 通话日期格式错误属于客户端错误，必须返回 400 而不是 500
func TestSubmitGradeRejectsBadCallDate(t *testing.T) {
	store := &stubGradeStore{}
	router := newGradeTestRouter(store)

	rec := postJSON(router, "/grades", `{"agentId":7,"callDate":"03/04/2024"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid call date")
	assert.Zero(t, store.created)
}

func TestSubmitGradeRejectsMissingAgent(t *testing.T) {
	store := &stubGradeStore{}
	router := newGradeTestRouter(store)

	rec := postJSON(router, "/grades", `{"callDate":"2024-03-04"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no agent selected")
	assert.Zero(t, store.created)
}

func TestSubmitGradeCreated(t *testing.T) {
	store := &stubGradeStore{}
	router := newGradeTestRouter(store)

	rec := postJSON(router, "/grades", `{"agentId":7,"callDate":"2024-03-04"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "grade-1")
	assert.Equal(t, 1, store.created)
}
