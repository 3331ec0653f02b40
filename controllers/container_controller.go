package controllers

import (
	"net/http"
	"strconv"

	"github.com/PvtMilo/WMS-demo/service"
	"github.com/PvtMilo/WMS-demo/utils"

	"github.com/gin-gonic/gin"
)

func (h *Controller) CreateContainer(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var in service.CreateContainerRequest
	if !bindJSON(c, &in) {
		return
	}
	ctr, err := h.Svc.Containers.Create(c.Request.Context(), in, caller)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": ctr.ID, "data": ctr})
}

// GET /api/containers?q=&status=
func (h *Controller) ListContainers(c *gin.Context) {
	rows, err := h.Svc.Containers.List(c.Request.Context(), service.ContainerFilter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
	})
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *Controller) GetContainer(c *gin.Context) {
	d, err := h.Svc.Containers.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type setStatusInput struct {
	Status string `json:"status" binding:"required"`
}

func (h *Controller) SetContainerStatus(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var in setStatusInput
	if !bindJSON(c, &in) {
		return
	}
	ctr, err := h.Svc.Containers.SetStatus(c.Request.Context(), c.Param("id"), in.Status, caller)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": ctr.Status})
}

func (h *Controller) OutstandingItems(c *gin.Context) {
	rows, err := h.Svc.Containers.OutstandingItems(c.Request.Context())
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows, "count": len(rows)})
}

func (h *Controller) ContainerMetrics(c *gin.Context) {
	m, err := h.Svc.Containers.Metrics(c.Request.Context())
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// ===== Ledger =====

// POST /api/containers/:id/add_items
func (h *Controller) AddItems(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var in service.AddItemsRequest
	if !bindJSON(c, &in) {
		return
	}
	res, err := h.Svc.Ledger.AddItems(c.Request.Context(), c.Param("id"), in, caller)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"added":       res.Added,
		"skipped":     res.Skipped,
		"counts":      res.Counts,
		"batch_label": res.BatchLabel,
	})
}

func (h *Controller) VoidItem(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var in service.VoidItemRequest
	if !bindJSON(c, &in) {
		return
	}
	if err := h.Svc.Ledger.VoidItem(c.Request.Context(), c.Param("id"), in, caller); err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Controller) CheckIn(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var in service.CheckInRequest
	if !bindJSON(c, &in) {
		return
	}
	res, err := h.Svc.Ledger.CheckIn(c.Request.Context(), c.Param("id"), in, caller)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": res})
}

// ===== DN =====

func (h *Controller) SubmitDN(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	snap, err := h.Svc.DN.Submit(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "version": snap.Version})
}

func (h *Controller) LatestDN(c *gin.Context) {
	snap, err := h.Svc.DN.Latest(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Controller) DNByVersion(c *gin.Context) {
	v, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "versi harus angka"})
		return
	}
	snap, err := h.Svc.DN.ByVersion(c.Request.Context(), c.Param("id"), v)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Controller) ListDN(c *gin.Context) {
	rows, err := h.Svc.DN.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}
