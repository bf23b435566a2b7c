package handlers

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"cryptofolio/internal/display"
	"cryptofolio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const timeLayout = "2006-01-02 15:04:05"

type Handler struct {
	tracker *service.Tracker
	log     *logrus.Logger
}

func NewHandler(t *service.Tracker, log *logrus.Logger) *Handler {
	return &Handler{tracker: t, log: log}
}

// Register installs the templates and every route on rg.
func (h *Handler) Register(rg *gin.Engine) {
	rg.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.tmpl")))

	rg.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	rg.GET("/", h.GetDashboard)
	rg.POST("/holdings", h.PostHoldingForm)

	api := rg.Group("/api")
	api.GET("/portfolio", h.GetPortfolio)
	api.POST("/holdings", h.PostHolding)
}

// snapshotStatus maps a failed render to a status code: the registry is ours,
// the price feed is upstream.
func (h *Handler) snapshotStatus(err error) (int, string) {
	var le *service.LoadError
	if errors.As(err, &le) {
		h.log.Errorf("load holdings failed: %v", err)
		return http.StatusInternalServerError, "load failed"
	}
	h.log.Errorf("price fetch failed: %v", err)
	return http.StatusBadGateway, "price fetch failed"
}

func (h *Handler) GetDashboard(c *gin.Context) {
	snap, err := h.tracker.Snapshot(c.Request.Context())
	if err != nil {
		status, msg := h.snapshotStatus(err)
		c.String(status, msg)
		return
	}
	c.HTML(http.StatusOK, "dashboard.tmpl", gin.H{
		"Table":     display.Build(snap.Valuation, c.Query("currency")),
		"UpdatedAt": snap.UpdatedAt.Format(timeLayout),
	})
}

func (h *Handler) GetPortfolio(c *gin.Context) {
	snap, err := h.tracker.Snapshot(c.Request.Context())
	if err != nil {
		status, msg := h.snapshotStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valuation":  snap.Valuation,
		"table":      display.Build(snap.Valuation, c.Query("currency")),
		"updated_at": snap.UpdatedAt,
	})
}

func addedMessage(symbol string) string {
	return fmt.Sprintf("Added %s to portfolio! Refresh the app.", symbol)
}

// PostHoldingForm stores a holding from the dashboard form. Ignored
// submissions go back to the dashboard without a message.
func (h *Handler) PostHoldingForm(c *gin.Context) {
	var form service.AddHoldingForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Warnf("invalid form body: %v", err)
		c.String(http.StatusBadRequest, "invalid form")
		return
	}
	holding, added, err := h.tracker.AddHolding(c.Request.Context(), form)
	if err != nil {
		h.log.Errorf("add holding failed: %v", err)
		c.String(http.StatusInternalServerError, "add failed")
		return
	}
	if !added {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "added.tmpl", gin.H{"Message": addedMessage(holding.Symbol)})
}

// HoldingRequest accepts numbers either as JSON numbers or numeric strings.
type HoldingRequest struct {
	Symbol     string      `json:"symbol"`
	Amount     json.Number `json:"amount"`
	BuyPrice   json.Number `json:"buy_price"`
	AlertAbove json.Number `json:"alert_above"`
}

func (h *Handler) PostHolding(c *gin.Context) {
	var req HoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid post body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	form := service.AddHoldingForm{
		Symbol:     req.Symbol,
		Amount:     req.Amount.String(),
		BuyPrice:   req.BuyPrice.String(),
		AlertAbove: req.AlertAbove.String(),
	}
	holding, added, err := h.tracker.AddHolding(c.Request.Context(), form)
	if err != nil {
		h.log.Errorf("add holding failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "add failed"})
		return
	}
	if !added {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "added", "holding": holding, "message": addedMessage(holding.Symbol)})
}
