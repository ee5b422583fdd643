package trigger

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"easymove_notifier/internal/common"
)

// maxEventBytes bounds a single event body. Firestore documents are at most 1 MiB
// and an update event carries two of them.
const maxEventBytes = 4 << 20

// Handler receives Firestore document events pushed by Eventarc.
type Handler struct {
	dispatcher *Dispatcher
	logger     *zap.Logger
}

func NewHandler(dispatcher *Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		logger:     logger.Named("trigger"),
	}
}

// RegisterRoutes mounts the event receiver. Eventarc targets "/" by default.
func (h *Handler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/", h.receiveEvent)
	router.POST("/events", h.receiveEvent)
}

func (h *Handler) receiveEvent(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxEventBytes)

	ev, err := ParseRequest(c.Request)
	if err != nil {
		h.logger.Warn("Rejected event", zap.Error(err), zap.String("ce_id", c.GetHeader("Ce-Id")))
		if errors.Is(err, ErrUnsupportedEncoding) {
			common.RespondWithError(c, common.ErrUnsupportedMediaType.WithDetails(err.Error()))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	if err := h.dispatcher.Dispatch(c.Request.Context(), ev); err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
