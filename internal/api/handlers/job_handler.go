package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoojob/internal/api/response"
	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/services"
)

type JobHandler struct {
	svc services.JobService
}

func NewJobHandler(svc services.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

func (h *JobHandler) Create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req services.JobInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, "JobHandler.Create", err)
		return
	}

	job, err := h.svc.Create(c.Request.Context(), caller, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "Job created", job)
}

func (h *JobHandler) Update(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req services.JobPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, "JobHandler.Update", err)
		return
	}

	job, err := h.svc.Update(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Job updated", job)
}

func (h *JobHandler) Delete(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Job deleted", nil)
}

func (h *JobHandler) Browse(c *gin.Context) {
	f := models.JobFilter{
		Title:       c.Query("title"),
		Location:    c.Query("location"),
		CompanyName: c.Query("company_name"),
	}

	page, err := h.svc.Browse(c.Request.Context(), f, pageFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Paged(c, "Jobs fetched", page.Items, page.Page, page.Total)
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Job details", job)
}

func (h *JobHandler) MyJobs(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	page, err := h.svc.MyJobs(c.Request.Context(), caller, pageFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Paged(c, "My jobs fetched", page.Items, page.Page, page.Total)
}
