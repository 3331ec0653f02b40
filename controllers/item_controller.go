package controllers

import (
	"net/http"
	"strconv"

	"github.com/PvtMilo/WMS-demo/service"
	"github.com/PvtMilo/WMS-demo/utils"

	"github.com/gin-gonic/gin"
)

// POST /api/items/batch_create
func (h *Controller) BatchCreateItems(c *gin.Context) {
	var in service.BatchCreateRequest
	if !bindJSON(c, &in) {
		return
	}
	codes, err := h.Svc.Items.BatchCreate(c.Request.Context(), in)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "created": codes})
}

// GET /api/items?q=&status=&category=&sort=&page=&page_size=
func (h *Controller) ListItems(c *gin.Context) {
	f := service.ItemFilter{
		Query:    c.Query("q"),
		Status:   c.Query("status"),
		Category: c.Query("category"),
		SortBy:   c.DefaultQuery("sort", ""),
		Page:     getInt(c, "page", 1),
		PageSize: getInt(c, "page_size", 100),
	}
	rows, total, err := h.Svc.Items.List(c.Request.Context(), f)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows, "count": len(rows), "total": total, "page": f.Page})
}

func (h *Controller) GetItem(c *gin.Context) {
	it, err := h.Svc.Items.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *Controller) UpdateItem(c *gin.Context) {
	var in service.ItemUpdateRequest
	if !bindJSON(c, &in) {
		return
	}
	it, err := h.Svc.Items.Update(c.Request.Context(), c.Param("code"), in)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": it})
}

// DELETE /api/items/:code?force=1
func (h *Controller) DeleteItem(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))
	if err := h.Svc.Items.Delete(c.Request.Context(), c.Param("code"), force, caller); err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Controller) BulkUpdateCondition(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var in service.BulkConditionRequest
	if !bindJSON(c, &in) {
		return
	}
	res, err := h.Svc.Items.BulkUpdateCondition(c.Request.Context(), in, caller)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "updated": res.Updated, "skipped": res.Skipped})
}

func (h *Controller) MarkLost(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var in service.MarkLostRequest
	if !bindJSON(c, &in) {
		return
	}
	res, err := h.Svc.Items.MarkLost(c.Request.Context(), in, caller)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "updated": res.Updated, "skipped": res.Skipped})
}

func (h *Controller) RepairItem(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var in service.RepairRequest
	if !bindJSON(c, &in) {
		return
	}
	it, err := h.Svc.Items.Repair(c.Request.Context(), in, caller)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": it})
}

// GET /api/items/repair_history?id_code=&limit=
func (h *Controller) RepairHistory(c *gin.Context) {
	rows, err := h.Svc.Items.RepairHistory(c.Request.Context(), c.Query("id_code"), getInt(c, "limit", 200))
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *Controller) MaintenanceList(c *gin.Context) {
	rows, err := h.Svc.Items.MaintenanceList(c.Request.Context(), c.Query("q"))
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows, "count": len(rows)})
}

func (h *Controller) SummaryByCategory(c *gin.Context) {
	rows, err := h.Svc.Items.SummaryByCategory(c.Request.Context())
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *Controller) LostContext(c *gin.Context) {
	row, err := h.Svc.Items.LostContext(c.Request.Context(), c.Param("code"))
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": row})
}
