package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rhyrak/section-scheduler/internal/csvio"
	"github.com/rhyrak/section-scheduler/internal/export"
	"github.com/rhyrak/section-scheduler/internal/service"
	"github.com/rhyrak/section-scheduler/internal/store"
	"github.com/rhyrak/section-scheduler/pkg/model"
)

type scheduleService interface {
	Generate(ctx context.Context, in service.GenerateInput) (*service.GenerateResult, error)
	List(ctx context.Context) ([]store.Run, error)
	Get(ctx context.Context, id string) (*store.Run, []model.Assignment, error)
	Delete(ctx context.Context, id string) error
}

type scheduleHandler struct {
	service  scheduleService
	delim    rune
	defaults service.GenerateInput
	logger   *zap.Logger
}

func (h *scheduleHandler) handleGetSchedule(ctx *gin.Context) {
	runs, err := h.service.List(ctx.Request.Context())
	if err != nil {
		abortWithError(ctx, statusFor(err), errorCode(err), err)
		return
	}

	var allIDs []string = []string{}
	for _, r := range runs {
		allIDs = append(allIDs, r.ID)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"scheduleIds": allIDs,
		"schedules":   runs,
	})
}

// handleGetScheduleWithId serves a stored run. ?format=csv and ?format=pdf
// return the timetable as a file instead of JSON.
func (h *scheduleHandler) handleGetScheduleWithId(ctx *gin.Context) {
	id := ctx.Param("id")
	run, assignments, err := h.service.Get(ctx.Request.Context(), id)
	if err != nil {
		abortWithError(ctx, statusFor(err), errorCode(err), err)
		return
	}

	switch ctx.DefaultQuery("format", "json") {
	case "csv":
		content, err := csvio.ExportAssignmentsString(assignments)
		if err != nil {
			abortWithError(ctx, http.StatusInternalServerError, errorCode(err), err)
			return
		}
		ctx.Header("Content-Disposition", `attachment; filename="`+id+`-schedule.csv"`)
		ctx.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(content))
	case "pdf":
		out, err := export.NewPDFExporter().RenderBytes(run.Trimester+" Trimester Schedule", export.SectionTables(assignments))
		if err != nil {
			abortWithError(ctx, http.StatusUnprocessableEntity, "EMPTY_SCHEDULE", err)
			return
		}
		ctx.Header("Content-Disposition", `attachment; filename="`+id+`-schedule.pdf"`)
		ctx.Data(http.StatusOK, "application/pdf", out)
	case "json":
		ctx.JSON(http.StatusOK, gin.H{
			"run":         run,
			"assignments": assignments,
		})
	default:
		abortWithError(ctx, http.StatusBadRequest, "BAD_REQUEST", errors.New("format must be json, csv or pdf"))
	}
}

func (h *scheduleHandler) handlePostSchedule(ctx *gin.Context) {
	in, err := readUpload(ctx, h.delim, h.defaults)
	if err != nil {
		abortWithError(ctx, http.StatusBadRequest, "BAD_REQUEST", err)
		return
	}

	res, err := h.service.Generate(ctx.Request.Context(), in)
	if err != nil {
		abortWithError(ctx, statusFor(err), errorCode(err), err)
		return
	}

	status := http.StatusCreated
	if res.Run.Status == store.StatusFailed {
		status = http.StatusUnprocessableEntity
	}
	if !res.Valid {
		h.logger.Error("generated schedule failed validation", zap.String("run_id", res.Run.ID))
		status = http.StatusInternalServerError
	}

	ctx.JSON(status, gin.H{
		"id":          res.Run.ID,
		"status":      res.Run.Status,
		"valid":       res.Valid,
		"seed":        res.Run.Seed,
		"assignments": len(res.Assignments),
		"failures":    res.Failures,
		"report":      res.Run.Report,
	})
}

func (h *scheduleHandler) handleDeleteSchedule(ctx *gin.Context) {
	if err := h.service.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		abortWithError(ctx, statusFor(err), errorCode(err), err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
