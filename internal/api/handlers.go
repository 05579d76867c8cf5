package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eg4lux/luxpower/internal/device"
	"github.com/eg4lux/luxpower/internal/health"
	"github.com/eg4lux/luxpower/internal/probe"
	"github.com/eg4lux/luxpower/pkg/logger"
)

// Handlers contains every operational API handler, all backed by the
// same device.Station the polling loop refreshes.
type Handlers struct {
	station       *device.Station
	healthService *health.HealthService
	log           logger.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(station *device.Station, healthService *health.HealthService, log logger.Logger) *Handlers {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Handlers{
		station:       station,
		healthService: healthService,
		log:           log.With(logger.String("component", "api_handlers")),
	}
}

// HealthCheck returns detailed health status for every connected device.
func (h *Handlers) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()
	results := h.healthService.CheckAll(ctx)
	overall := h.healthService.GetOverallStatus(results)

	statusCode := http.StatusOK
	switch overall {
	case health.StatusUnhealthy:
		statusCode = http.StatusServiceUnavailable
	case health.StatusDegraded:
		statusCode = http.StatusPartialContent
	}
	c.JSON(statusCode, gin.H{"status": overall, "checks": results})
}

// findInverter locates an inverter by serial across the whole station.
func (h *Handlers) findInverter(serial string) *device.Inverter {
	for _, inv := range h.station.AllInverters() {
		if inv.Serial == serial {
			return inv
		}
	}
	return nil
}

// findMID locates a GridBOSS companion by serial across the station.
func (h *Handlers) findMID(serial string) *device.MID {
	for _, g := range h.station.Groups {
		if g.MID != nil && g.MID.Serial == serial {
			return g.MID
		}
	}
	return nil
}

// ListDevices returns every inverter and GridBOSS the station knows
// about, grouped the way the device hierarchy groups them.
func (h *Handlers) ListDevices(c *gin.Context) {
	type deviceSummary struct {
		Serial    string `json:"serial"`
		Family    string `json:"family"`
		Connected bool   `json:"connected"`
	}
	type groupSummary struct {
		Name      string          `json:"name"`
		Inverters []deviceSummary `json:"inverters"`
		MID       *deviceSummary  `json:"gridboss,omitempty"`
	}

	var groups []groupSummary
	for _, g := range h.station.Groups {
		gs := groupSummary{Name: g.Name}
		for _, inv := range g.Inverters {
			gs.Inverters = append(gs.Inverters, deviceSummary{
				Serial: inv.Serial, Family: string(inv.Family), Connected: inv.IsConnected(),
			})
		}
		if g.MID != nil {
			gs.MID = &deviceSummary{Serial: g.MID.Serial, Family: "GRIDBOSS", Connected: g.MID.IsConnected()}
		}
		groups = append(groups, gs)
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *Handlers) forceParam(c *gin.Context) bool {
	return c.Query("force") == "true" || c.Query("force") == "1"
}

// GetRuntime returns an inverter's cached runtime snapshot.
func (h *Handlers) GetRuntime(c *gin.Context) {
	inv := h.findInverter(c.Param("serial"))
	if inv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	d, err := inv.Runtime(c.Request.Context(), h.forceParam(c))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, d)
}

// GetEnergy returns an inverter's cached energy snapshot.
func (h *Handlers) GetEnergy(c *gin.Context) {
	inv := h.findInverter(c.Param("serial"))
	if inv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	d, err := inv.Energy(c.Request.Context(), h.forceParam(c))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, d)
}

// GetBattery returns an inverter's cached battery bank snapshot.
func (h *Handlers) GetBattery(c *gin.Context) {
	inv := h.findInverter(c.Param("serial"))
	if inv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	d, err := inv.Battery(c.Request.Context(), h.forceParam(c))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, d)
}

// GetGridBOSS returns a GridBOSS companion's cached runtime snapshot.
func (h *Handlers) GetGridBOSS(c *gin.Context) {
	mid := h.findMID(c.Param("serial"))
	if mid == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	d, err := mid.Runtime(c.Request.Context(), h.forceParam(c))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, d)
}

// GetParameters returns an inverter's flat parameter map.
func (h *Handlers) GetParameters(c *gin.Context) {
	inv := h.findInverter(c.Param("serial"))
	if inv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	params, err := inv.Parameters(c.Request.Context(), h.forceParam(c))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, params)
}

// SetParameters writes one or more named holding-register parameters.
func (h *Handlers) SetParameters(c *gin.Context) {
	inv := h.findInverter(c.Param("serial"))
	if inv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	var body map[string]float64
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := inv.SetParameters(c.Request.Context(), body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "written"})
}

// SetBatterySOCLimits writes the charge-resume/discharge-cutoff SoC
// thresholds.
func (h *Handlers) SetBatterySOCLimits(c *gin.Context) {
	inv := h.findInverter(c.Param("serial"))
	if inv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	var body struct {
		On  float64 `json:"on"`
		Off float64 `json:"off"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := inv.SetBatterySOCLimits(c.Request.Context(), body.On, body.Off); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "written"})
}

// SetACChargeSchedule writes one AC-charge schedule period's start and
// end time.
func (h *Handlers) SetACChargeSchedule(c *gin.Context) {
	inv := h.findInverter(c.Param("serial"))
	if inv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	period, err := strconv.Atoi(c.Param("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period"})
		return
	}
	var body struct {
		StartHour   uint8 `json:"start_hour"`
		StartMinute uint8 `json:"start_minute"`
		EndHour     uint8 `json:"end_hour"`
		EndMinute   uint8 `json:"end_minute"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := inv.SetACChargeSchedule(c.Request.Context(), period, body.StartHour, body.StartMinute, body.EndHour, body.EndMinute); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "written"})
}

// GetACChargeSchedule reads back one AC-charge schedule period's start
// and end time.
func (h *Handlers) GetACChargeSchedule(c *gin.Context) {
	inv := h.findInverter(c.Param("serial"))
	if inv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	period, err := strconv.Atoi(c.Param("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period"})
		return
	}
	sh, sm, eh, em, err := inv.GetACChargeSchedule(c.Request.Context(), period)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"start_hour":   sh,
		"start_minute": sm,
		"end_hour":     eh,
		"end_minute":   em,
	})
}

// RunBatteryProbe runs the battery rotation probe against one inverter
// and returns its rotation analysis. This is a multi-second operation
// (iterations × delay) run synchronously on the request goroutine.
func (h *Handlers) RunBatteryProbe(c *gin.Context) {
	inv := h.findInverter(c.Param("serial"))
	if inv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}

	bank, err := inv.Battery(c.Request.Context(), true)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	batteryCount := 0
	if bank != nil {
		batteryCount = len(bank.Modules)
	}

	iterations := probe.DefaultIterations(batteryCount)
	delay := probe.DefaultDelay(false)
	records := probe.RunIterations(c.Request.Context(), inv, iterations, delay)
	analysis := probe.Analyze(records)
	c.JSON(http.StatusOK, analysis)
}
