package web

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/air-magic/pkg/camera"
	"github.com/teslashibe/air-magic/pkg/display"
	"github.com/teslashibe/air-magic/pkg/hub"
	"github.com/teslashibe/air-magic/pkg/session"
	"github.com/teslashibe/air-magic/pkg/transfer"
	"github.com/teslashibe/air-magic/pkg/views"
)

// Snapshot is the session view pushed over /ws/session.
type Snapshot struct {
	session.State
	View     views.View         `json:"view"`
	Source   display.Source     `json:"source"`
	Banner   display.Banner     `json:"banner"`
	Receiver display.Receiver   `json:"receiver"`
	Stats    []display.StatCard `json:"stats"`
	Logs     []display.LogLine  `json:"logs"`
}

// snapshot renders sess. Thumbnails are image URLs rather than inline data
// so snapshots stay small.
func (s *Server) snapshot(sess *session.Session) Snapshot {
	st := sess.State()
	records := sess.Records()

	receiver := display.Project(records)
	for i := range receiver.Cards {
		receiver.Cards[i].Thumbnail = imageURL(receiver.Cards[i].ID)
	}

	return Snapshot{
		State:    st,
		View:     s.router.Current(),
		Source:   display.SourcePanel(st.CameraActive, st.Processing),
		Banner:   display.StatusBanner(st.Message, string(st.Tone)),
		Receiver: receiver,
		Stats:    display.StatCards(len(records)),
		Logs:     display.Logs(st.CameraActive, records, time.Now()),
	}
}

func imageURL(id string) string {
	return "/api/records/" + id + "/image"
}

// handleHealth reports liveness.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleListViews(c *fiber.Ctx) error {
	return c.JSON(views.PageLayout().Nav)
}

// handleGetView returns a panel; unknown names get the overview.
func (s *Server) handleGetView(c *fiber.Ctx) error {
	return c.JSON(views.Content(c.Params("name")))
}

func (s *Server) handleLayout(c *fiber.Ctx) error {
	return c.JSON(views.PageLayout())
}

func (s *Server) handleCurrentView(c *fiber.Ctx) error {
	return c.JSON(views.Content(string(s.router.Current())))
}

// handleSelectView switches the visible view. Leaving the simulation tears
// the session down; entering it starts the camera.
func (s *Server) handleSelectView(c *fiber.Ctx) error {
	v := s.router.Select(c.Params("name"))
	return c.JSON(views.Content(string(v)))
}

func (s *Server) handleSession(c *fiber.Ctx) error {
	return c.JSON(s.snapshot(s.Session()))
}

// handleStartCamera acquires the camera. Failure is reported with 503 and
// the resulting state; it is not retried.
func (s *Server) handleStartCamera(c *fiber.Ctx) error {
	sess := s.Session()
	ctx, cancel := context.WithTimeout(c.UserContext(), cameraStartTimeout)
	defer cancel()

	if err := sess.StartCamera(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   err.Error(),
			"session": s.snapshot(sess),
		})
	}
	return c.JSON(s.snapshot(sess))
}

func (s *Server) handleStopCamera(c *fiber.Ctx) error {
	sess := s.Session()
	if err := sess.StopCamera(); err != nil {
		s.logger.Warn("camera release failed", "error", err)
	}
	return c.JSON(s.snapshot(sess))
}

// handleCapture records the current frame manually.
func (s *Server) handleCapture(c *fiber.Ctx) error {
	r, err := s.Session().Capture()
	switch {
	case errors.Is(err, session.ErrCameraInactive):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, session.ErrClosed):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	case err != nil:
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(recordCard(r))
}

func recordCard(r transfer.Record) display.Card {
	card := display.Project([]transfer.Record{r}).Cards[0]
	card.Thumbnail = imageURL(r.ID)
	return card
}

// handleReceiver returns the receiver panel with inline thumbnails.
func (s *Server) handleReceiver(c *fiber.Ctx) error {
	return c.JSON(display.Project(s.Session().Records()))
}

func (s *Server) handleRecordImage(c *fiber.Ctx) error {
	r, ok := s.Session().Record(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, transfer.ErrNotFound.Error())
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(r.Image)
}

func (s *Server) handleLogs(c *fiber.Ctx) error {
	sess := s.Session()
	return c.JSON(display.Logs(sess.State().CameraActive, sess.Records(), time.Now()))
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	sess := s.Session()
	st := sess.State()
	return c.JSON(fiber.Map{
		"cards":   display.StatCards(st.Records),
		"ticks":   st.Ticks,
		"skipped": st.Skipped,
		"hubs": fiber.Map{
			"session": s.sessionHub.Stats(),
			"camera":  s.cameraHub.Stats(),
		},
	})
}

func (s *Server) handleGetCameraConfig(c *fiber.Ctx) error {
	return c.JSON(s.cameras.GetConfig())
}

// handleUpdateCameraConfig applies partial updates, e.g. {"preset":"720p"}
// or {"width":1280,"height":720}. The new format is used the next time the
// camera is started.
func (s *Server) handleUpdateCameraConfig(c *fiber.Ctx) error {
	var params map[string]any
	if err := json.Unmarshal(c.Body(), &params); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON: "+err.Error())
	}
	if err := s.cameras.UpdateConfig(params); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(s.cameras.GetConfig())
}

func (s *Server) handleCameraPresets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"presets": camera.Presets(),
		"names":   camera.PresetNames(),
	})
}

// handleSessionWS streams session snapshots, starting with the current one.
func (s *Server) handleSessionWS(conn *websocket.Conn) {
	client, err := s.sessionHub.Register(conn)
	if err != nil {
		return
	}
	if data, err := json.Marshal(s.snapshot(s.Session())); err == nil {
		client.Send(hub.NewJSONMessage(data))
	}
	client.Run()
}

// handleCameraWS streams binary JPEG preview frames.
func (s *Server) handleCameraWS(conn *websocket.Conn) {
	client, err := s.cameraHub.Register(conn)
	if err != nil {
		return
	}
	client.Run()
}
