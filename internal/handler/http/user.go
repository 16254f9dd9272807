package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrm-api/internal/domain/user"
	"github.com/cmlabs-hris/hrm-api/internal/handler/http/response"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/listing"
)

type UserHandler interface {
	ListUsers(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{userService: userService}
}

// ListUsers handles GET /users
func (h *userHandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	params, err := listing.ParseParams(r.URL.Query())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.userService.ListUsers(r.Context(), params)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, result)
}
