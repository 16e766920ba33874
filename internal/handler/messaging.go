package handler

import (
	"net/http"

	"github.com/moshegoodman/zoozz2-sub000/internal/domain"
)

// SendTestMessage 往指定渠道发一条测试消息，用来验证通知链路是否通畅
func (h *Handler) SendTestMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Channel string `json:"channel" validate:"required,oneof=email sms whatsapp"`
		To      string `json:"to" validate:"required"`
		Body    string `json:"body" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	message := domain.NotificationMessage{
		Channel: domain.NotificationChannel(req.Channel),
		Type:    "test",
		To:      req.To,
		Data: domain.TestMessageData{
			Body: req.Body,
		},
	}

	if err := h.publishNotification(message); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "测试消息已进入发送队列", nil)
}
