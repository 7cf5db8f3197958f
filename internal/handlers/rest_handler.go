package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"xelaConnect/internal/errs"
	"xelaConnect/internal/models"
	"xelaConnect/internal/msgs"
	"xelaConnect/internal/services"
)

type RestHandler struct {
	authService *services.AuthenticationService
	chatService *services.ChatService
	logger      zerolog.Logger
}

func NewRestHandler(
	authService *services.AuthenticationService,
	chatService *services.ChatService,
	logger zerolog.Logger,
) *RestHandler {
	return &RestHandler{
		authService: authService,
		chatService: chatService,
		logger:      logger,
	}
}

// Login godoc
// @Summary      Login user to account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Failure      401  {object}  models.Response
// @Router       /api/auth/login [post]
func (rh *RestHandler) Login(ctx *gin.Context) {
	var loginData models.LoginRequestBody
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		rh.logger.Debug().Err(err).Msg("error login data json binding")
		abortWithErrors(ctx, http.StatusBadRequest, errs.ErrInvalidRequestBody)
		return
	}

	loginResponse, err := rh.authService.Login(ctx.Request.Context(), &loginData)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) || errors.Is(err, errs.ErrWrongPassword) {
			abortWithErrors(ctx, http.StatusUnauthorized, err)
			return
		}
		rh.logger.Error().Err(err).Msg("login failed")
		abortWithErrors(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    loginResponse,
	})
}

// GetConversation godoc
// @Summary      Conversation with a partner, messages oldest first
// @Tags         messaging
// @Produce      json
// @Param        partnerId  path  string  true  "Partner user ID"
// @Success      200  {object}  models.ConversationResponse
// @Failure      401  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Router       /api/messaging/conversations/{partnerId} [get]
func (rh *RestHandler) GetConversation(ctx *gin.Context) {
	viewerID := ctx.GetString(ContextUserID)
	partnerID := ctx.Param("partnerId")

	conversation, err := rh.chatService.GetConversation(ctx.Request.Context(), viewerID, partnerID)
	if err != nil {
		rh.abortWithChatError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, models.ConversationResponse{
		Conversation: conversation,
	})
}

// SendMessage godoc
// @Summary      Send a message to a partner
// @Tags         messaging
// @Accept       json
// @Produce      json
// @Param        partnerId  path  string  true  "Partner user ID"
// @Success      201  {object}  models.SendMessageResponse
// @Failure      400  {object}  models.Response
// @Failure      401  {object}  models.Response
// @Router       /api/messaging/conversations/{partnerId}/messages [post]
func (rh *RestHandler) SendMessage(ctx *gin.Context) {
	senderID := ctx.GetString(ContextUserID)
	partnerID := ctx.Param("partnerId")

	var request models.SendMessageRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		abortWithErrors(ctx, http.StatusBadRequest, errs.ErrInvalidRequestBody)
		return
	}

	message, err := rh.chatService.SendMessage(ctx.Request.Context(), senderID, partnerID, request.Message)
	if err != nil {
		rh.abortWithChatError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, models.SendMessageResponse{
		Success: true,
		Message: *message,
	})
}

func (rh *RestHandler) abortWithChatError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrConversationNotFound):
		abortWithErrors(ctx, http.StatusNotFound, err)
	case errors.Is(err, errs.ErrEmptyMessage),
		errors.Is(err, errs.ErrMessageTooLong),
		errors.Is(err, errs.ErrEmptyPartnerID),
		errors.Is(err, errs.ErrSelfConversation):
		abortWithErrors(ctx, http.StatusBadRequest, err)
	default:
		rh.logger.Error().Err(err).Str("path", ctx.FullPath()).Msg("messaging request failed")
		abortWithErrors(ctx, http.StatusInternalServerError, err)
	}
}

func abortWithErrors(ctx *gin.Context, status int, errors ...error) {
	ctx.AbortWithStatusJSON(status, models.Response{
		Success: false,
		Message: msgs.MsgOperationFailed,
		Errors:  errors,
	})
}
