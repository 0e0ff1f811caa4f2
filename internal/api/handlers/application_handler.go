package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoojob/internal/api/response"
	"github.com/yoockh/yoojob/internal/services"
	"github.com/yoockh/yoojob/internal/utils"
)

// multipartOverhead leaves room for the form fields next to the resume.
const multipartOverhead = 1 << 20

type ApplicationHandler struct {
	svc            services.ApplicationService
	maxResumeBytes int64
}

func NewApplicationHandler(svc services.ApplicationService, maxResumeBytes int64) *ApplicationHandler {
	if maxResumeBytes <= 0 {
		maxResumeBytes = services.DefaultResumeSize
	}
	return &ApplicationHandler{svc: svc, maxResumeBytes: maxResumeBytes}
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	const op = "ApplicationHandler.Apply"

	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxResumeBytes+multipartOverhead)

	in := services.ApplyInput{}
	fh, err := c.FormFile("resume")
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
			return
		}
		defer f.Close()
		in.Resume = &services.Resume{FileName: fh.Filename, Size: fh.Size, Content: f}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// reported together with the other missing fields
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, utils.Invalid(op, fmt.Sprintf("Resume must not exceed %d MB.", h.maxResumeBytes>>20)))
			return
		}
		badBody(c, op, err)
		return
	}

	in.JobID = c.PostForm("job_id")
	if cl, ok := c.GetPostForm("cover_letter"); ok {
		in.CoverLetter = &cl
	}

	app, err := h.svc.Apply(c.Request.Context(), caller, in)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "Application submitted", app)
}

func (h *ApplicationHandler) MyApplications(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	page, err := h.svc.MyApplications(c.Request.Context(), caller, pageFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Paged(c, "Applications fetched", page.Items, page.Page, page.Total)
}

func (h *ApplicationHandler) ForJob(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	page, err := h.svc.ForJob(c.Request.Context(), caller, c.Param("id"), pageFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Paged(c, "Job applications fetched", page.Items, page.Page, page.Total)
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, "ApplicationHandler.UpdateStatus", err)
		return
	}

	app, err := h.svc.UpdateStatus(c.Request.Context(), caller, c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Application status updated", app)
}

func (h *ApplicationHandler) Timeline(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	events, err := h.svc.Timeline(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Application timeline", events)
}
