package repository

import (
	"sales_coach_backend/internal/model"

	"gorm.io/gorm"
)

type GradeRepository struct {
	DB *gorm.DB
}

func NewGradeRepository(db *gorm.DB) *GradeRepository {
	return &GradeRepository{DB: db}
}

// CreateWithRollup 成绩记录和按坐席的滚动汇总在同一事务内落库，
// 要么全部提交要么全部回滚。失败原样抛给调用方，由调用方决定整体重试。
func (r *GradeRepository) CreateWithRollup(grade *model.CallGrade, gradedBy string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(grade).Error; err != nil {
			return err
		}

		var metric model.AgentMetric
		err := tx.Where("agent_id = ?", grade.AgentID).First(&metric).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		if err == gorm.ErrRecordNotFound {
			metric = model.AgentMetric{AgentID: grade.AgentID}
		}

		// 滚动平均：(avg*n + score) / (n+1)
		metric.AverageScore = (metric.AverageScore*float64(metric.TotalGrades) + grade.TotalScore) /
			float64(metric.TotalGrades+1)
		metric.TotalGrades++
		metric.LastGradeID = grade.ID
		metric.LastGradeDate = grade.CallDate
		metric.LastGradedBy = gradedBy

		return tx.Save(&metric).Error
	})
}

// FindByFilter 按筛选条件取成绩，最新的在前
func (r *GradeRepository) FindByFilter(filter model.GradeFilter) ([]model.CallGrade, error) {
	var grades []model.CallGrade

	query := r.DB.Model(&model.CallGrade{})
	if filter.AgentID != 0 {
		query = query.Where("agent_id = ?", filter.AgentID)
	}
	if filter.GraderID != 0 {
		query = query.Where("grader_id = ?", filter.GraderID)
	}
	if filter.StartDate != nil {
		query = query.Where("call_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("call_date <= ?", *filter.EndDate)
	}

	err := query.Order("created_at DESC").Find(&grades).Error
	return grades, err
}

func (r *GradeRepository) FindByID(id string) (*model.CallGrade, error) {
	var grade model.CallGrade
	err := r.DB.Where("id = ?", id).First(&grade).Error
	return &grade, err
}

func (r *GradeRepository) Delete(id string) error {
	result := r.DB.Where("id = ?", id).Delete(&model.CallGrade{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GradeRepository) GetAgentMetric(agentID uint) (*model.AgentMetric, error) {
	var metric model.AgentMetric
	err := r.DB.Where("agent_id = ?", agentID).First(&metric).Error
	return &metric, err
}

// RecomputeRollups 从成绩表全量重算坐席汇总。删除成绩不会回调汇总，
// 管理员批量清理后用这个脚本入口校正。
func (r *GradeRepository) RecomputeRollups() error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		type rollupRow struct {
			AgentID      uint
			TotalGrades  int64
			AverageScore float64
		}
		var rows []rollupRow
		if err := tx.Model(&model.CallGrade{}).
			Select("agent_id, COUNT(*) AS total_grades, AVG(total_score) AS average_score").
			Group("agent_id").
			Scan(&rows).Error; err != nil {
			return err
		}

		if err := tx.Where("1 = 1").Delete(&model.AgentMetric{}).Error; err != nil {
			return err
		}

		for _, row := range rows {
			var last model.CallGrade
			if err := tx.Where("agent_id = ?", row.AgentID).
				Order("created_at DESC").First(&last).Error; err != nil {
				return err
			}

			gradedBy := ""
			var grader model.User
			if err := tx.First(&grader, last.GraderID).Error; err == nil {
				gradedBy = grader.Name
			}

			metric := model.AgentMetric{
				AgentID:       row.AgentID,
				TotalGrades:   row.TotalGrades,
				AverageScore:  row.AverageScore,
				LastGradeID:   last.ID,
				LastGradeDate: last.CallDate,
				LastGradedBy:  gradedBy,
			}
			if err := tx.Create(&metric).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
