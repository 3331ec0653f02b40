package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/PvtMilo/WMS-demo/service"
	"github.com/PvtMilo/WMS-demo/utils"

	"github.com/gin-gonic/gin"
)

func (h *Controller) CreateEmoney(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var in service.CreateEmoneyRequest
	if !bindJSON(c, &in) {
		return
	}
	acc, err := h.Svc.Emoney.Create(c.Request.Context(), in, caller)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": acc.ID})
}

// GET /api/emoney?q=&page=&per_page=
func (h *Controller) ListEmoney(c *gin.Context) {
	f := service.EmoneyFilter{
		Query:   c.Query("q"),
		Page:    getInt(c, "page", 1),
		PerPage: getInt(c, "per_page", 20),
	}
	rows, total, err := h.Svc.Emoney.List(c.Request.Context(), f)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows, "total": total, "page": f.Page, "per_page": f.PerPage})
}

func (h *Controller) GetEmoney(c *gin.Context) {
	d, err := h.Svc.Emoney.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// amount boleh string ("12,50") atau angka; amount_cents dipakai kalau diisi.
type emoneyTxInput struct {
	Type           string `json:"type" binding:"required"`
	Amount         any    `json:"amount"`
	AmountCents    int64  `json:"amount_cents"`
	Note           string `json:"note"`
	RefContainerID string `json:"ref_container_id"`
}

func (h *Controller) AddEmoneyTx(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var in emoneyTxInput
	if !bindJSON(c, &in) {
		return
	}

	cents := in.AmountCents
	if cents == 0 && in.Amount != nil {
		v, err := utils.ParseAmountCents(fmt.Sprint(in.Amount))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "amount harus angka > 0"})
			return
		}
		cents = v
	}

	tx, err := h.Svc.Emoney.AddTransaction(c.Request.Context(), c.Param("id"), service.AddEmoneyTxRequest{
		Type:        in.Type,
		AmountCents: cents,
		Note:        in.Note,
		ContainerID: in.RefContainerID,
	}, caller)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": tx, "amount": utils.FormatCents(tx.AmountCents)})
}

func (h *Controller) SetEmoneyStatus(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var in setStatusInput
	if !bindJSON(c, &in) {
		return
	}
	acc, err := h.Svc.Emoney.SetStatus(c.Request.Context(), c.Param("id"), in.Status, caller)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": acc.Status})
}

func (h *Controller) EmoneyTxByContainer(c *gin.Context) {
	rep, err := h.Svc.Emoney.TransactionsByContainer(c.Request.Context(), c.Param("cid"))
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GET /api/emoney/tx?start=2025-01-01&end=2025-01-31&q=
// end inklusif (sampai akhir hari).
func (h *Controller) EmoneyTxInRange(c *gin.Context) {
	start, err1 := time.Parse("2006-01-02", c.Query("start"))
	end, err2 := time.Parse("2006-01-02", c.Query("end"))
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "start/end wajib format YYYY-MM-DD"})
		return
	}
	rows, err := h.Svc.Emoney.TransactionsInRange(c.Request.Context(), start, end.AddDate(0, 0, 1), c.Query("q"))
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows, "count": len(rows)})
}

func (h *Controller) DeleteEmoney(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	if err := h.Svc.Emoney.Delete(c.Request.Context(), c.Param("id"), caller); err != nil {
		utils.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
