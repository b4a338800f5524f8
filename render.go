package littlehouse

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/littlehouse/content"
	"github.com/eringen/littlehouse/i18n"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// apiResponse is the envelope of every JSON endpoint.
type apiResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
	Data     any    `json:"data,omitempty"`
	Total    *int   `json:"total,omitempty"`
	FileName string `json:"fileName,omitempty"`
	FilePath string `json:"filePath,omitempty"`
}

// jsonMessage writes a successful response with a localised message.
func jsonMessage(c echo.Context, code int, key string, resp apiResponse) error {
	resp.Success = true
	resp.Message = i18n.T(Locale(c), key)
	return c.JSON(code, resp)
}

// jsonError writes a failed response with a localised message.
func jsonError(c echo.Context, code int, key string) error {
	return c.JSON(code, apiResponse{Error: i18n.T(Locale(c), key)})
}

// jsonStoreError maps a content error onto an HTTP status and message.
// Unexpected errors are logged and reported as 500.
func jsonStoreError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, content.ErrNotFound):
		return jsonError(c, http.StatusNotFound, i18n.MsgNotFound)
	case errors.Is(err, content.ErrConflict):
		return jsonError(c, http.StatusConflict, i18n.MsgConflict)
	case errors.Is(err, content.ErrInvalid):
		return jsonError(c, http.StatusBadRequest, i18n.MsgMissing)
	default:
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return jsonError(c, http.StatusInternalServerError, i18n.MsgFailed)
	}
}
