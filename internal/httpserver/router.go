package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	healthStatusOK        = "ok"
	healthStatusUnhealthy = "unhealthy"
)

// HealthChecker reports whether the shop backend is reachable.
type HealthChecker interface {
	Health() error
}

func RegisterRoutes(router *gin.Engine, handler *Handler, checker HealthChecker) {
	router.GET("/", handler.Index)
	router.POST("/product/:id", handler.SelectProduct)
	router.POST("/basket", handler.OpenBasket)
	router.POST("/basket/toggle", handler.ToggleBasketItem)
	router.POST("/basket/items/:id/remove", handler.RemoveBasketItem)
	router.POST("/order", handler.Checkout)
	router.POST("/order/payment", handler.SelectPayment)
	router.POST("/order/field", handler.ChangeField)
	router.POST("/order/submit", handler.SubmitDelivery)
	router.POST("/contacts/submit", handler.SubmitContacts)
	router.POST("/modal/close", handler.CloseModal)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		if err := checker.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": healthStatusUnhealthy})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": healthStatusOK})
	})
}
