package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/UsagiiTsukino/medchain-api/internal/notify"
)

const registerDeadline = 10 * time.Second

// NotifyHandler owns the websocket endpoint and the staff publish endpoint
// of the notification channel.
type NotifyHandler struct {
	hub      *notify.Hub
	notifier *notify.Service
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewNotifyHandler(hub *notify.Hub, notifier *notify.Service, log zerolog.Logger) *NotifyHandler {
	return &NotifyHandler{
		hub:      hub,
		notifier: notifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// cross-origin websocket clients are expected; auth happens
			// via the register event, not the origin
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// registerEvent is the first frame a client must send after connecting.
type registerEvent struct {
	Event         string `json:"event"`
	WalletAddress string `json:"walletAddress"`
}

// Serve handles GET /ws/notifications. The client registers its wallet
// identity; the connection then receives newMessageNotification pushes until
// either side closes or a newer registration replaces it.
func (h *NotifyHandler) Serve(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	_ = ws.SetReadDeadline(time.Now().Add(registerDeadline))
	var reg registerEvent
	if err := ws.ReadJSON(&reg); err != nil {
		h.log.Debug().Err(err).Msg("notification register not received")
		return nil
	}
	if reg.Event != "register" || reg.WalletAddress == "" {
		_ = ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "wallet identity required"),
			time.Now().Add(time.Second),
		)
		return nil
	}
	_ = ws.SetReadDeadline(time.Time{})

	client := h.hub.Register(reg.WalletAddress, ws)
	defer h.hub.Unregister(reg.WalletAddress, client)

	h.log.Info().Str("wallet", reg.WalletAddress).Msg("notification channel registered")

	// read loop only detects disconnect; clients send nothing after register
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			h.log.Debug().Err(err).Str("wallet", reg.WalletAddress).Msg("notification channel closed")
			return nil
		}
	}
}

type publishRequest struct {
	To            string `json:"to"            validate:"required"`
	Content       string `json:"content"       validate:"required"`
	AppointmentID string `json:"appointmentId"`
}

// Publish handles POST /staff/notifications: staff push a chat message
// notification to a patient's wallet identity.
//
// @Summary      Push a message notification
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      publishRequest  true  "Notification"
// @Success      202   {object}  map[string]string
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /staff/notifications [post]
func (h *NotifyHandler) Publish(c echo.Context) error {
	var req publishRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	m := notify.MessageNotification{
		To:            req.To,
		From:          sess.User.FullName,
		Message:       notify.MessageBody{Content: req.Content},
		AppointmentID: req.AppointmentID,
	}
	if err := h.notifier.Publish(c.Request().Context(), m); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, map[string]string{"message": "notification accepted"})
}
