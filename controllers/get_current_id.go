package controllers

import (
	"errors"

	"github.com/PvtMilo/WMS-demo/middlewares"
	"github.com/PvtMilo/WMS-demo/service"

	"github.com/gin-gonic/gin"
)

func currentCaller(c *gin.Context) (service.Caller, error) {
	v, ok := c.Get(middlewares.CallerKey)
	if !ok {
		return service.Caller{}, errors.New("caller tidak ada di context")
	}
	caller, ok := v.(service.Caller)
	if !ok || caller.ID == 0 {
		return service.Caller{}, errors.New("caller tidak valid")
	}
	return caller, nil
}

func currentUserID(c *gin.Context) (uint, error) {
	caller, err := currentCaller(c)
	if err != nil {
		return 0, err
	}
	return caller.ID, nil
}
