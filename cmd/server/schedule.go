package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rhyrak/section-scheduler/internal/csvio"
	"github.com/rhyrak/section-scheduler/internal/offering"
	"github.com/rhyrak/section-scheduler/internal/scheduler"
	"github.com/rhyrak/section-scheduler/internal/service"
	"github.com/rhyrak/section-scheduler/internal/store"
)

// scheduleForm is the non-file part of a generation upload.
type scheduleForm struct {
	Trimester string `form:"trimester" binding:"required"`
	Seed      string `form:"seed"`
	Groups    string `form:"groups"`
	Sections  int    `form:"defaultSections" binding:"omitempty,min=1,max=26"`
}

var errMissingFile = errors.New("missing upload")

// readUpload turns the multipart upload into engine input. "subjects" and
// "rooms" are required, "sections" is optional.
func readUpload(ctx *gin.Context, delim rune, defaults service.GenerateInput) (service.GenerateInput, error) {
	in := defaults
	var form scheduleForm
	if err := ctx.ShouldBind(&form); err != nil {
		return in, err
	}
	in.Trimester = strings.TrimSpace(form.Trimester)
	if form.Seed != "" {
		seed, err := strconv.ParseInt(form.Seed, 10, 64)
		if err != nil {
			return in, fmt.Errorf("invalid seed %q", form.Seed)
		}
		in.Seed = &seed
	}
	if form.Groups != "" {
		in.Groups = strings.Split(form.Groups, ",")
		for i := range in.Groups {
			in.Groups[i] = strings.TrimSpace(in.Groups[i])
		}
	}
	if form.Sections > 0 {
		in.DefaultSections = form.Sections
	}

	if err := withUpload(ctx, "subjects", true, func(r io.Reader) (err error) {
		in.Subjects, err = csvio.ReadSubjects(r, delim)
		return
	}); err != nil {
		return in, err
	}
	if err := withUpload(ctx, "rooms", true, func(r io.Reader) (err error) {
		in.Rooms, err = csvio.ReadRooms(r, delim)
		return
	}); err != nil {
		return in, err
	}
	if err := withUpload(ctx, "sections", false, func(r io.Reader) (err error) {
		in.SectionCounts, err = csvio.ReadSectionCounts(r, delim)
		return
	}); err != nil {
		return in, err
	}
	return in, nil
}

func withUpload(ctx *gin.Context, field string, required bool, fn func(io.Reader) error) error {
	header, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			if required {
				return fmt.Errorf("%w: %s", errMissingFile, field)
			}
			return nil
		}
		return err
	}
	f, err := header.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	var serr *scheduler.Error
	switch {
	case errors.Is(err, store.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, offering.ErrNoOffering):
		return http.StatusUnprocessableEntity
	case errors.As(err, &serr):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func errorCode(err error) string {
	var serr *scheduler.Error
	switch {
	case errors.As(err, &serr):
		return string(serr.Code)
	case errors.Is(err, store.ErrRunNotFound):
		return "NOT_FOUND"
	case errors.Is(err, offering.ErrNoOffering):
		return "NO_OFFERING"
	case errors.Is(err, service.ErrStorageDisabled):
		return "STORAGE_DISABLED"
	}
	return "INTERNAL"
}

func abortWithError(ctx *gin.Context, status int, code string, err error) {
	_ = ctx.Error(err)
	ctx.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{"code": code, "message": err.Error()},
	})
}
