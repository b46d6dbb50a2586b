package portfolio

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/portfolio/models"
)

// submitMessage normalizes and validates a contact submission, stores it and
// notifies. A failed notification is logged only; the message is already saved.
func (a *App) submitMessage(ctx context.Context, in messageInput) (models.Message, []FieldError, error) {
	in.normalize()
	if errs := check(in); len(errs) > 0 {
		return models.Message{}, errs, nil
	}
	msg, err := a.Store.CreateMessage(ctx, models.Message{
		Name:    in.Name,
		Email:   in.Email,
		Subject: in.Subject,
		Message: in.Message,
	})
	if err != nil {
		return models.Message{}, nil, err
	}
	if err := a.Notifier.MessageReceived(ctx, msg); err != nil {
		a.Echo.Logger.Warnf("notify message %s: %v", msg.ID, err)
	}
	return msg, nil, nil
}

// handleCreateMessage accepts a public contact-form submission.
func (a *App) handleCreateMessage(c echo.Context) error {
	if !a.contactLimiter.Allow(c.RealIP()) {
		return jsonMessage(c, http.StatusTooManyRequests, "Too many messages. Try again later.")
	}
	var in messageInput
	if err := c.Bind(&in); err != nil {
		return bindError(c, "Invalid message data", err)
	}
	msg, errs, err := a.submitMessage(c.Request().Context(), in)
	if len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, validationResponse{Message: "Invalid message data", Errors: errs})
	}
	if err != nil {
		return storageError(c, "Failed to send message", err)
	}
	return c.JSON(http.StatusCreated, msg)
}

func (a *App) handleListMessages(c echo.Context) error {
	msgs, err := a.Store.ListMessages(c.Request().Context())
	if err != nil {
		return storageError(c, "Failed to fetch messages", err)
	}
	return c.JSON(http.StatusOK, msgs)
}

func (a *App) handleGetMessage(c echo.Context) error {
	msg, err := a.Store.GetMessage(c.Request().Context(), c.Param("id"))
	if err != nil {
		return lookupError(c, err, "Message not found", "Failed to fetch message")
	}
	return c.JSON(http.StatusOK, msg)
}

func (a *App) handleMarkMessageRead(c echo.Context) error {
	if err := a.Store.MarkMessageRead(c.Request().Context(), c.Param("id")); err != nil {
		return lookupError(c, err, "Message not found", "Failed to mark message as read")
	}
	return jsonSuccess(c, "Message marked as read")
}

func (a *App) handleDeleteMessage(c echo.Context) error {
	if err := a.Store.DeleteMessage(c.Request().Context(), c.Param("id")); err != nil {
		return storageError(c, "Failed to delete message", err)
	}
	return jsonSuccess(c, "Message deleted successfully")
}
