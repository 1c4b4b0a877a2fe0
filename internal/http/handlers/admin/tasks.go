package admin

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/http/middleware"
	"github.com/jdevop33/hockey-pouches-sub002/internal/http/validation"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/tasks"
	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/apperr"
)

type TasksHandler struct {
	DB *gorm.DB
}

func NewTasksHandler(db *gorm.DB) *TasksHandler { return &TasksHandler{DB: db} }

func (h *TasksHandler) List(c *gin.Context) {
	page := parseInt(c.Query("page"), 1)
	limit := parseInt(c.Query("limit"), 30)

	res, err := tasks.NewRepo(h.DB).List(c.Request.Context(), tasks.ListParams{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	items := make([]gin.H, 0, len(res.Items))
	for _, t := range res.Items {
		item := gin.H{
			"id":         t.ID,
			"title":      t.Title,
			"category":   t.Category,
			"status":     t.Status,
			"priority":   t.Priority,
			"created_at": t.CreatedAt.Format(time.RFC3339),
		}
		if t.AssignedTo != nil {
			item["assigned_to"] = *t.AssignedTo
		}
		if t.RelatedType != nil && t.RelatedID != nil {
			item["related_type"] = *t.RelatedType
			item["related_id"] = *t.RelatedID
		}
		if t.DueDate != nil {
			item["due_date"] = t.DueDate.Format(time.RFC3339)
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"total":       res.Total,
		"page":        page,
		"total_pages": pagesFromTotal(res.Total, limit),
	})
}

type createTaskRequest struct {
	Title      string     `json:"title" binding:"required,max=255"`
	Category   string     `json:"category" binding:"omitempty,oneof=payout refund order general"`
	Priority   string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	AssignedTo *string    `json:"assigned_to"`
	DueDate    *time.Time `json:"due_date"`
}

func (h *TasksHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Check the highlighted fields.", fields))
		return
	}

	t, err := tasks.NewRepo(h.DB).Create(c.Request.Context(), tasks.CreateInput{
		Title:      req.Title,
		Category:   req.Category,
		Priority:   req.Priority,
		AssignedTo: req.AssignedTo,
		DueDate:    req.DueDate,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": t.ID, "status": t.Status})
}

type updateTaskRequest struct {
	Status     *string    `json:"status" binding:"omitempty,oneof=pending in_progress completed deferred"`
	Priority   *string    `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	AssignedTo *string    `json:"assigned_to"`
	DueDate    *time.Time `json:"due_date"`
}

func (h *TasksHandler) Update(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Check the highlighted fields.", fields))
		return
	}

	err := tasks.NewRepo(h.DB).Update(c.Request.Context(), c.Param("id"), tasks.UpdateInput{
		Status:     req.Status,
		Priority:   req.Priority,
		AssignedTo: req.AssignedTo,
		DueDate:    req.DueDate,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			middleware.Fail(c, apperr.NotFoundErr("Task not found."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
