package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/UsagiiTsukino/medchain-api/internal/core/domain"
	"github.com/UsagiiTsukino/medchain-api/internal/core/ports"
	"github.com/UsagiiTsukino/medchain-api/internal/pkg/listquery"
)

// UserHandler serves the admin user directory and the staff patient list.
type UserHandler struct {
	users ports.UserRepository
}

func NewUserHandler(users ports.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

type userListResponse struct {
	Result []*domain.User `json:"result"`
	Meta   ports.ListMeta `json:"meta"`
}

// List handles GET /admin/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page (1-based)"
// @Param        size  query     int  false  "Page size"
// @Success      200   {object}  userListResponse
// @Router       /admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	return h.list(c, "")
}

// ListPatients handles GET /staff/patients: the worklist of patient accounts
// visible to center staff.
//
// @Summary      List patients
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userListResponse
// @Router       /staff/patients [get]
func (h *UserHandler) ListPatients(c echo.Context) error {
	return h.list(c, domain.RolePatient)
}

func (h *UserHandler) list(c echo.Context, role domain.Role) error {
	page := queryInt(c, "page", listquery.DefaultPage)
	size := queryInt(c, "size", listquery.DefaultSize)
	if size > listquery.MaxSize {
		size = listquery.MaxSize
	}

	users, total, err := h.users.List(c.Request().Context(), role, page, size)
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}

	return c.JSON(http.StatusOK, userListResponse{
		Result: users,
		Meta:   ports.ListMeta{Page: page, PageSize: size, Total: total},
	})
}

func queryInt(c echo.Context, name string, fallback int) int {
	v := c.QueryParam(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
