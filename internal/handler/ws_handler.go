package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/saviare/saviare-backend/internal/middleware"
	"github.com/saviare/saviare-backend/internal/response"
	"github.com/saviare/saviare-backend/internal/service"
	ws "github.com/saviare/saviare-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams a quiz session: autosave per question, then submit.
type WSHandler struct {
	quizService       *service.QuizService
	draftService      *service.DraftService
	submissionService *service.SubmissionService
	log               zerolog.Logger
	upgrader          websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(
	quizService *service.QuizService,
	draftService *service.DraftService,
	submissionService *service.SubmissionService,
	log zerolog.Logger,
	allowedOrigins []string,
) *WSHandler {
	return &WSHandler{
		quizService:       quizService,
		draftService:      draftService,
		submissionService: submissionService,
		log:               log.With().Str("component", "ws_handler").Logger(),
		upgrader:          buildUpgrader(allowedOrigins),
	}
}

// QuizWebSocketStream godoc
// WS /ws/v1/student/quizzes/:quiz_id/stream?token=...
// Upgrades to WebSocket for autosave and grading of the saved draft.
func (h *WSHandler) QuizWebSocketStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	studentID := claims.UserID

	// Access is checked before the upgrade so the client gets a plain HTTP error.
	if _, err := h.quizService.GetForStudent(c.Request.Context(), quizID, studentID); err != nil {
		failFromError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("student_id", studentID).
		Str("quiz_id", quizID.String()).
		Logger()

	wsLog.Info().Msg("Student connected")

	for {
		var msg ws.RequestPayload
		err := ws.ReadJSON(conn, &msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionAutosave:
			h.handleAutosave(conn, wsLog, studentID, quizID, &msg)
		case ws.ActionSubmit:
			h.handleSubmit(conn, wsLog, studentID, quizID)
		case ws.ActionPing:
			ws.WriteJSON(conn, ws.EventPong, nil)
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			ws.WriteError(conn, string(response.ErrInvalidPayload), "unknown action: "+string(msg.Action))
		}
	}
}

// handleAutosave stores one answer in the student's draft.
func (h *WSHandler) handleAutosave(conn *websocket.Conn, wsLog zerolog.Logger, studentID int, quizID uuid.UUID, msg *ws.RequestPayload) {
	ctx := context.Background()

	if msg.Index == nil {
		ws.WriteError(conn, string(response.ErrInvalidPayload), "index is required")
		return
	}

	quiz, err := h.quizService.Get(ctx, quizID)
	if err != nil {
		h.writeServiceError(conn, wsLog, err)
		return
	}

	if err := h.draftService.Save(ctx, studentID, quiz, *msg.Index, msg.Answer); err != nil {
		h.writeServiceError(conn, wsLog, err)
		return
	}

	ws.WriteJSON(conn, ws.EventSuccess, ws.SavedData{Status: "saved", Index: *msg.Index})
}

// handleSubmit grades the saved draft and records the course grade.
func (h *WSHandler) handleSubmit(conn *websocket.Conn, wsLog zerolog.Logger, studentID int, quizID uuid.UUID) {
	result, err := h.submissionService.SubmitDraft(context.Background(), studentID, quizID)
	if err != nil {
		h.writeServiceError(conn, wsLog, err)
		return
	}

	ws.WriteJSON(conn, ws.EventGraded, ws.GradedData{Status: "completed", Result: result})
}

func (h *WSHandler) writeServiceError(conn *websocket.Conn, wsLog zerolog.Logger, err error) {
	status, code, detail := classify(err)
	if status >= http.StatusInternalServerError {
		wsLog.Error().Err(err).Msg("Quiz stream action failed")
	}
	msg := response.GetMessage(code)
	if detail {
		msg = err.Error()
	}
	ws.WriteError(conn, string(code), msg)
}
