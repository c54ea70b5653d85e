package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/ashconsole/internal/domain/errors"
	"github.com/polkiloo/ashconsole/internal/domain/model"
	"github.com/polkiloo/ashconsole/internal/server/http/dto"
	"github.com/polkiloo/ashconsole/internal/server/http/middleware"
	"github.com/polkiloo/ashconsole/internal/usecase"
)

const genericFailure = "Something went wrong. Please try again."

// errorStatus maps a use case error onto an HTTP status and user text.
func errorStatus(err error) (int, dto.ErrorResponse) {
	var validation *domainErrors.ValidationError
	var auth *domainErrors.AuthError
	var request *domainErrors.RequestError
	var timeout *domainErrors.TimeoutError
	var network *domainErrors.NetworkError

	switch {
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity, dto.ErrorResponse{Message: validation.Message, Fields: validation.Fields}
	case errors.As(err, &auth):
		return http.StatusUnauthorized, dto.ErrorResponse{Message: auth.Message}
	case errors.Is(err, domainErrors.ErrRowBusy), errors.Is(err, domainErrors.ErrSubmitInFlight):
		return http.StatusConflict, dto.ErrorResponse{Message: err.Error()}
	case errors.Is(err, domainErrors.ErrStatusNotApplied):
		return http.StatusConflict, dto.ErrorResponse{Message: "The server did not apply the requested status."}
	case errors.Is(err, domainErrors.ErrUnknownStatus):
		return http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()}
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout, dto.ErrorResponse{Message: "The server took too long to respond."}
	case errors.As(err, &network):
		return http.StatusBadGateway, dto.ErrorResponse{Message: "Unable to reach the server. Please try again."}
	case errors.As(err, &request):
		return http.StatusBadGateway, dto.ErrorResponse{Message: request.Message}
	default:
		return http.StatusInternalServerError, dto.ErrorResponse{Message: genericFailure}
	}
}

// abortWithError writes err. A backend 401 that survived the refresh step
// sends the operator to the login page instead.
func abortWithError(c *gin.Context, err error) {
	if domainErrors.IsUnauthorized(err) {
		middleware.RedirectToLogin(c, true)
		return
	}
	status, body := errorStatus(err)
	c.AbortWithStatusJSON(status, body)
}

func toOrderResponse(o model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:                  o.ID,
		CustomerName:        o.CustomerName,
		CustomerEmail:       o.CustomerEmail,
		CustomerPhoneNumber: o.CustomerPhoneNumber,
		Deadline:            o.Deadline,
		Notes:               o.Notes,
		PageCount:           o.PageCount,
		WordCount:           o.WordCount,
		PreferredContact:    string(o.PreferredContact),
		Services:            o.Services,
		SourceLanguage:      o.SourceLanguage,
		TargetLanguage:      o.TargetLanguage,
		Status:              string(o.Status),
		UploadedFilePath:    o.UploadedFilePath,
	}
}

func toRowResponse(row usecase.BoardRow) dto.OrderResponse {
	resp := toOrderResponse(row.Order)
	resp.Urgency = string(row.Urgency)
	resp.Busy = row.Busy
	for _, s := range row.Next {
		resp.NextStatuses = append(resp.NextStatuses, string(s))
	}
	return resp
}
