package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orgbnet-project/orgbnet/internal/protocol"
)

// controllerSummary is the list-view representation of a controller.
type controllerSummary struct {
	ID         uint32 `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Vendor     string `json:"vendor,omitempty"`
	ActiveMode string `json:"active_mode,omitempty"`
	Zones      int    `json:"zones"`
	LEDs       int    `json:"leds"`
}

type modeView struct {
	Index     uint32 `json:"index"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	ColorMode string `json:"color_mode"`

	SpeedMin *uint32 `json:"speed_min,omitempty"`
	SpeedMax *uint32 `json:"speed_max,omitempty"`
	Speed    *uint32 `json:"speed,omitempty"`

	Brightness *uint32 `json:"brightness,omitempty"`
	Direction  string  `json:"direction,omitempty"`

	Colors []string `json:"colors,omitempty"`
}

type segmentView struct {
	Name     string `json:"name"`
	Type     int32  `json:"type"`
	StartIdx uint32 `json:"start_idx"`
	LEDCount uint32 `json:"led_count"`
}

type zoneView struct {
	ID        uint32 `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	LEDsMin   uint32 `json:"leds_min"`
	LEDsMax   uint32 `json:"leds_max"`
	LEDsCount uint32 `json:"leds_count"`

	MatrixHeight uint32 `json:"matrix_height,omitempty"`
	MatrixWidth  uint32 `json:"matrix_width,omitempty"`

	Segments []segmentView `json:"segments,omitempty"`
	Flags    *uint32       `json:"flags,omitempty"`
}

type ledView struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func summarizeController(ctrl *protocol.ControllerData) controllerSummary {
	summary := controllerSummary{
		ID:     ctrl.ID,
		Name:   ctrl.Name,
		Type:   ctrl.Type.String(),
		Vendor: ctrl.Vendor,
		Zones:  len(ctrl.Zones),
		LEDs:   ctrl.LEDCount(),
	}
	if mode := ctrl.CurrentMode(); mode != nil {
		summary.ActiveMode = mode.Name
	}
	return summary
}

func viewMode(m *protocol.ModeData, active bool) modeView {
	view := modeView{
		Index:     m.Index,
		Name:      m.Name,
		Active:    active,
		ColorMode: m.ColorMode.String(),
	}
	if min, max, cur, ok := m.SpeedRange(); ok {
		view.SpeedMin, view.SpeedMax, view.Speed = &min, &max, &cur
	}
	if b, ok := m.BrightnessValue(); ok {
		view.Brightness = &b
	}
	if d, ok := m.DirectionValue(); ok {
		view.Direction = d.String()
	}
	for _, col := range m.Colors {
		view.Colors = append(view.Colors, col.Hex())
	}
	return view
}

func viewZone(z *protocol.ZoneData) zoneView {
	view := zoneView{
		ID:        z.ID,
		Name:      z.Name,
		Type:      z.Type.String(),
		LEDsMin:   z.LEDsMin,
		LEDsMax:   z.LEDsMax,
		LEDsCount: z.LEDsCount,
	}
	if z.Matrix != nil {
		view.MatrixHeight = z.Matrix.Height
		view.MatrixWidth = z.Matrix.Width
	}
	if segments, ok := z.Segments.Value(); ok {
		for _, seg := range segments {
			view.Segments = append(view.Segments, segmentView{
				Name:     seg.Name,
				Type:     seg.Type,
				StartIdx: seg.StartIdx,
				LEDCount: seg.LEDCount,
			})
		}
	}
	if flags, ok := z.Flags.Value(); ok {
		view.Flags = &flags
	}
	return view
}

// handleListControllers returns summaries of all cached controllers.
func (s *Server) handleListControllers(c *gin.Context) {
	controllers := s.manager.Controllers()

	summaries := make([]controllerSummary, 0, len(controllers))
	for _, ctrl := range controllers {
		summaries = append(summaries, summarizeController(ctrl))
	}

	c.JSON(http.StatusOK, gin.H{
		"controllers": summaries,
		"total":       len(summaries),
	})
}

// handleGetController returns the full detail of one controller.
func (s *Server) handleGetController(c *gin.Context) {
	ctrl, ok := s.controllerParam(c)
	if !ok {
		return
	}

	modes := make([]modeView, 0, len(ctrl.Modes))
	for i := range ctrl.Modes {
		modes = append(modes, viewMode(&ctrl.Modes[i], int32(i) == ctrl.ActiveMode))
	}

	zones := make([]zoneView, 0, len(ctrl.Zones))
	for i := range ctrl.Zones {
		zones = append(zones, viewZone(&ctrl.Zones[i]))
	}

	leds := make([]ledView, 0, len(ctrl.LEDs))
	for i, led := range ctrl.LEDs {
		view := ledView{Name: led.Name}
		if i < len(ctrl.Colors) {
			view.Color = ctrl.Colors[i].Hex()
		}
		leds = append(leds, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          ctrl.ID,
		"name":        ctrl.Name,
		"type":        ctrl.Type.String(),
		"vendor":      ctrl.Vendor,
		"description": ctrl.Description,
		"fw_version":  ctrl.FWVersion,
		"serial":      ctrl.Serial,
		"location":    ctrl.Location,
		"active_mode": ctrl.ActiveMode,
		"modes":       modes,
		"zones":       zones,
		"leds":        leds,
	})
}

type colorRequest struct {
	Color string `json:"color" binding:"required"`
}

// handleSetControllerColor sets every LED of a controller to one color.
func (s *Server) handleSetControllerColor(c *gin.Context) {
	ctrl, ok := s.controllerParam(c)
	if !ok {
		return
	}

	var req colorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "color is required"})
		return
	}
	color, err := protocol.ParseColor(req.Color)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.manager.SetControllerColor(c.Request.Context(), ctrl.ID, color); err != nil {
		s.operationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"controller": ctrl.ID,
		"color":      color.Hex(),
	})
}

// handleSetZoneColor sets every LED of one zone to one color.
func (s *Server) handleSetZoneColor(c *gin.Context) {
	ctrl, ok := s.controllerParam(c)
	if !ok {
		return
	}
	zoneID, ok := uintParam(c, "zone")
	if !ok {
		return
	}
	if ctrl.Zone(zoneID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "zone not found"})
		return
	}

	var req colorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "color is required"})
		return
	}
	color, err := protocol.ParseColor(req.Color)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.manager.SetZoneColor(c.Request.Context(), ctrl.ID, zoneID, color); err != nil {
		s.operationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"controller": ctrl.ID,
		"zone":       zoneID,
		"color":      color.Hex(),
	})
}

// handleSetLEDColor sets a single LED to one color.
func (s *Server) handleSetLEDColor(c *gin.Context) {
	ctrl, ok := s.controllerParam(c)
	if !ok {
		return
	}
	ledIdx, ok := uintParam(c, "led")
	if !ok {
		return
	}
	if int(ledIdx) >= len(ctrl.LEDs) {
		c.JSON(http.StatusNotFound, gin.H{"error": "led index out of range"})
		return
	}

	var req colorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "color is required"})
		return
	}
	color, err := protocol.ParseColor(req.Color)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.manager.SetLEDColor(c.Request.Context(), ctrl.ID, int32(ledIdx), color); err != nil {
		s.operationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"controller": ctrl.ID,
		"led":        ledIdx,
		"color":      color.Hex(),
	})
}

// handleSetMode activates a mode on a controller by name.
func (s *Server) handleSetMode(c *gin.Context) {
	ctrl, ok := s.controllerParam(c)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
		Save bool   `json:"save"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode name is required"})
		return
	}
	if ctrl.Mode(req.Name) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "mode not found"})
		return
	}

	if err := s.manager.SetMode(c.Request.Context(), ctrl.ID, req.Name, req.Save); err != nil {
		s.operationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"controller": ctrl.ID,
		"mode":       req.Name,
		"saved":      req.Save,
	})
}

// handleResizeZone resizes a resizable zone.
func (s *Server) handleResizeZone(c *gin.Context) {
	ctrl, ok := s.controllerParam(c)
	if !ok {
		return
	}
	zoneID, ok := uintParam(c, "zone")
	if !ok {
		return
	}

	var req struct {
		Size int32 `json:"size" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Size < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a non-negative size is required"})
		return
	}

	zone := ctrl.Zone(zoneID)
	if zone == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "zone not found"})
		return
	}
	if uint32(req.Size) < zone.LEDsMin || uint32(req.Size) > zone.LEDsMax {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "size outside zone limits",
			"min":   zone.LEDsMin,
			"max":   zone.LEDsMax,
		})
		return
	}

	if err := s.manager.ResizeZone(c.Request.Context(), ctrl.ID, int32(zoneID), req.Size); err != nil {
		s.operationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"controller": ctrl.ID,
		"zone":       zoneID,
		"size":       req.Size,
	})
}

// handleAddSegment appends a segment to a zone. Requires protocol 5.
func (s *Server) handleAddSegment(c *gin.Context) {
	ctrl, ok := s.controllerParam(c)
	if !ok {
		return
	}
	zoneID, ok := uintParam(c, "zone")
	if !ok {
		return
	}
	if ctrl.Zone(zoneID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "zone not found"})
		return
	}

	var req struct {
		Name     string `json:"name" binding:"required"`
		Type     int32  `json:"type"`
		StartIdx uint32 `json:"start_idx"`
		LEDCount uint32 `json:"led_count" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and led_count are required"})
		return
	}

	segment := protocol.SegmentData{
		Name:     req.Name,
		Type:     req.Type,
		StartIdx: req.StartIdx,
		LEDCount: req.LEDCount,
	}
	if err := s.manager.AddSegment(c.Request.Context(), ctrl.ID, zoneID, segment); err != nil {
		s.operationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"controller": ctrl.ID,
		"zone":       zoneID,
		"segment":    req.Name,
	})
}

// handleClearSegments removes all segments from a zone. Requires protocol 5.
func (s *Server) handleClearSegments(c *gin.Context) {
	ctrl, ok := s.controllerParam(c)
	if !ok {
		return
	}
	zoneID, ok := uintParam(c, "zone")
	if !ok {
		return
	}
	if ctrl.Zone(zoneID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "zone not found"})
		return
	}

	if err := s.manager.ClearSegments(c.Request.Context(), ctrl.ID, zoneID); err != nil {
		s.operationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"controller": ctrl.ID,
		"zone":       zoneID,
		"status":     "cleared",
	})
}

// handleApplyPreset applies a named color preset to a controller.
func (s *Server) handleApplyPreset(c *gin.Context) {
	ctrl, ok := s.controllerParam(c)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preset name is required"})
		return
	}

	if _, found := s.manager.Presets().Get(req.Name); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "preset not found"})
		return
	}

	if err := s.manager.ApplyPreset(c.Request.Context(), ctrl.ID, req.Name); err != nil {
		s.operationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"controller": ctrl.ID,
		"preset":     req.Name,
	})
}

// handleRefresh re-fetches all controller snapshots.
func (s *Server) handleRefresh(c *gin.Context) {
	if err := s.manager.Refresh(c.Request.Context()); err != nil {
		s.operationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"controllers": len(s.manager.Controllers()),
	})
}

// handleRescan asks the server to re-detect devices.
func (s *Server) handleRescan(c *gin.Context) {
	if err := s.manager.Rescan(c.Request.Context()); err != nil {
		s.operationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"controllers": len(s.manager.Controllers()),
	})
}

// controllerParam resolves the :id path parameter to a cached controller,
// writing the error response itself when resolution fails.
func (s *Server) controllerParam(c *gin.Context) (*protocol.ControllerData, bool) {
	id, ok := uintParam(c, "id")
	if !ok {
		return nil, false
	}
	ctrl, found := s.manager.Controller(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "controller not found"})
		return nil, false
	}
	return ctrl, true
}

func uintParam(c *gin.Context, name string) (uint32, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint32(v), true
}

// operationError maps lighting operation failures to HTTP status codes.
func (s *Server) operationError(c *gin.Context, err error) {
	var unsupported *protocol.UnsupportedOperationError
	if errors.As(err, &unsupported) {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error":              unsupported.Error(),
			"required_version":   unsupported.Required,
			"negotiated_version": unsupported.Negotiated,
		})
		return
	}

	var connErr *protocol.ConnectionError
	if errors.As(err, &connErr) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
