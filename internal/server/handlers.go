package server

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/capedit/capedit/internal/caption"
	"github.com/capedit/capedit/internal/editor"
	"github.com/capedit/capedit/internal/render"
	"github.com/capedit/capedit/internal/subtitle"
	"github.com/capedit/capedit/internal/tier"
	"github.com/capedit/capedit/internal/video"
)

// anonymous sessions all meter against one bucket; a real deployment
// puts an auth middleware in front and sets this per request
const defaultUserID = "local"

type errorResponse struct {
	Error string `json:"error"`
}

type loadVideoRequest struct {
	Path string `json:"path" validate:"required"`
}

type videoResponse struct {
	Path             string  `json:"path"`
	Duration         float64 `json:"duration"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	RemainingMinutes int     `json:"remainingMinutes"`
}

type updateCaptionRequest struct {
	Caption    caption.Caption `json:"caption"`
	Field      string          `json:"field" validate:"omitempty,oneof=text style animation"`
	SyncStyles bool            `json:"syncStyles"`
}

type splitCaptionRequest struct {
	Offset int `json:"offset" validate:"gte=0"`
}

type exportVideoRequest struct {
	OutputPath string `json:"outputPath"`
}

func (s *Server) userID(c echo.Context) string {
	if id := c.Request().Header.Get("X-User-ID"); id != "" {
		return id
	}
	return defaultUserID
}

func (s *Server) userTier() tier.Tier {
	return tier.Tier(s.cfg.Tier)
}

// loadVideo probes a video on local disk, checks it against the tier
// limits and points the session at it.
func (s *Server) loadVideo(c echo.Context) error {
	var req loadVideoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	stat, err := os.Stat(req.Path)
	if err != nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "video file not found"})
	}

	info, err := s.probe(c.Request().Context(), req.Path)
	if err != nil {
		s.log.Errorw("probe failed", "path", req.Path, "error", err)
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "could not read video metadata"})
	}

	t := s.userTier()
	used := s.meter.Used(s.userID(c))
	if err := tier.CheckVideo(t, info.Duration, stat.Size(), used); err != nil {
		return c.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})
	}

	s.session.LoadVideo(req.Path, info.Duration)
	s.log.Infow("video loaded", "path", req.Path, "duration", info.Duration)

	return c.JSON(http.StatusOK, videoResponse{
		Path:             req.Path,
		Duration:         info.Duration,
		Width:            info.Width,
		Height:           info.Height,
		RemainingMinutes: s.meter.Remaining(t, s.userID(c)),
	})
}

func (s *Server) videoInfo(c echo.Context) error {
	if s.session.VideoPath() == "" {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "no video loaded"})
	}
	return c.JSON(http.StatusOK, videoResponse{
		Path:             s.session.VideoPath(),
		Duration:         s.session.Duration(),
		RemainingMinutes: s.meter.Remaining(s.userTier(), s.userID(c)),
	})
}

// generateCaptions runs transcription and bills the video's minutes
// against the monthly quota.
func (s *Server) generateCaptions(c echo.Context) error {
	err := s.session.GenerateCaptions(c.Request().Context())
	switch {
	case errors.Is(err, editor.ErrNoVideo):
		return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, editor.ErrGenerationInFlight):
		return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	case err != nil:
		return c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
	}

	s.meter.Record(s.userID(c), tier.MinutesFor(s.session.Duration()))
	return c.JSON(http.StatusOK, s.session.Store().Snapshot())
}

func (s *Server) listCaptions(c echo.Context) error {
	return c.JSON(http.StatusOK, s.session.Store().Snapshot())
}

func (s *Server) updateCaption(c echo.Context) error {
	var req updateCaptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	req.Caption.ID = c.Param("id")
	if _, ok := s.session.Store().Get(req.Caption.ID); !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: caption.ErrNotFound.Error()})
	}

	s.session.UpdateCaption(req.Caption, caption.Field(req.Field), caption.EditContext{SyncStyles: req.SyncStyles})
	return c.JSON(http.StatusOK, s.session.Store().Snapshot())
}

func (s *Server) splitCaption(c echo.Context) error {
	var req splitCaptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := s.session.SplitCaption(c.Param("id"), req.Offset)
	switch {
	case errors.Is(err, caption.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, caption.ErrSplitEmpty):
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, s.session.Store().Snapshot())
}

func (s *Server) selectCaption(c echo.Context) error {
	id := c.Param("id")
	s.session.SelectCaption(id)

	if sel, ok := s.session.Store().Selected(); ok {
		return c.JSON(http.StatusOK, sel)
	}
	return c.JSON(http.StatusNotFound, errorResponse{Error: caption.ErrNotFound.Error()})
}

func (s *Server) activeCaption(c echo.Context) error {
	t, err := queryFloat(c, "t")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	active, ok := caption.ActiveAt(s.session.Store().Snapshot(), t)
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, active)
}

// renderState resolves the full visual state of the caption visible at
// a playback time, for a preview surface that draws server-side.
func (s *Server) renderState(c echo.Context) error {
	t, err := queryFloat(c, "t")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	width, err := queryFloat(c, "width")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	height, err := queryFloat(c, "height")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	state, ok := s.session.RenderAt(t, render.Frame{Width: width, Height: height})
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, state)
}

// exportSRT returns the timeline as an SRT document.
func (s *Server) exportSRT(c echo.Context) error {
	tl := s.session.Store().Snapshot()
	if len(tl) == 0 {
		return c.JSON(http.StatusConflict, errorResponse{Error: editor.ErrNoCaptions.Error()})
	}
	return c.Blob(http.StatusOK, "application/x-subrip", []byte(subtitle.Marshal(tl)))
}

// exportVideo burns the captions into the source video on local disk.
func (s *Server) exportVideo(c echo.Context) error {
	var req exportVideoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	out := req.OutputPath
	if out == "" {
		out = subtitle.CaptionedName(s.session.VideoPath())
	}

	err := s.session.ExportVideo(c.Request().Context(), out, nil)
	switch {
	case errors.Is(err, editor.ErrNoVideo), errors.Is(err, editor.ErrNoCaptions),
		errors.Is(err, video.ErrExportInFlight):
		return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	case err != nil:
		s.log.Errorw("video export failed", "output", out, "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "video export failed"})
	}

	return c.JSON(http.StatusOK, map[string]string{"outputPath": out})
}

func queryFloat(c echo.Context, name string) (float64, error) {
	raw := c.QueryParam(name)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New("query parameter " + name + " must be a number")
	}
	return v, nil
}
