package littlehouse

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/littlehouse/content"
	"github.com/eringen/littlehouse/i18n"
)

// postRequest is the JSON or form body of create and update calls.
type postRequest struct {
	content.Fields
	FileName string `json:"fileName" form:"fileName"`
}

func (a *App) handleStudy(c echo.Context) error {
	p := a.page(c, "Study", "")
	if !a.IsAuthor(c) {
		return Render(c, a.Views.StudyLogin(p, c.QueryParam("error") != ""))
	}
	posts, err := a.Store.ListAll()
	if err != nil {
		return err
	}
	images, err := a.listImages()
	if err != nil {
		return err
	}
	return Render(c, a.Views.StudyDesk(p, posts, images))
}

// handleStudyLogin checks the passphrase and, on success, signs the session
// in and returns a bearer token pair for API clients. Form posts from the
// login page are redirected back to the desk.
func (a *App) handleStudyLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return jsonError(c, http.StatusTooManyRequests, i18n.MsgTooMany)
	}
	var req struct {
		Password string `json:"password" form:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, i18n.MsgBadPassword)
	}
	fromForm := !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
	if !a.checkPassword(req.Password) {
		a.loginLimiter.Record(ip)
		if fromForm {
			return c.Redirect(http.StatusSeeOther, i18n.AddPrefix("/study/?error=1", Locale(c)))
		}
		return jsonError(c, http.StatusUnauthorized, i18n.MsgBadPassword)
	}
	tok := a.IssueToken(a.now())
	if err := setStudySession(c, tok.AuthTime); err != nil {
		return err
	}
	if fromForm {
		return c.Redirect(http.StatusSeeOther, i18n.AddPrefix("/study/", Locale(c)))
	}
	return c.JSON(http.StatusOK, struct {
		Success bool `json:"success"`
		AuthToken
	}{true, tok})
}

func (a *App) handleStudyLogout(c echo.Context) error {
	if err := clearStudySession(c); err != nil {
		return err
	}
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) &&
		c.Request().Header.Get(echo.HeaderAuthorization) == "" {
		return c.Redirect(http.StatusSeeOther, i18n.AddPrefix("/study/", Locale(c)))
	}
	return c.JSON(http.StatusOK, apiResponse{Success: true})
}

// handleStudyPosts lists every post including drafts, or returns one post
// with its body when ?fileName= is given.
func (a *App) handleStudyPosts(c echo.Context) error {
	if name := c.QueryParam("fileName"); name != "" {
		post, err := a.Store.Get(name)
		if err != nil {
			return jsonStoreError(c, err)
		}
		return c.JSON(http.StatusOK, apiResponse{Success: true, Data: post})
	}
	posts, err := a.Store.ListAll()
	if err != nil {
		return jsonStoreError(c, err)
	}
	total := len(posts)
	return c.JSON(http.StatusOK, apiResponse{Success: true, Data: posts, Total: &total})
}

func (a *App) handleStudyCreate(c echo.Context) error {
	req, err := bindPost(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, i18n.MsgMissing)
	}
	if !hasRequired(req.Fields) {
		return jsonError(c, http.StatusBadRequest, i18n.MsgMissing)
	}
	name, err := a.Store.Create(req.Fields)
	if err != nil {
		return jsonStoreError(c, err)
	}
	a.Cache.Invalidate()
	msg := i18n.MsgDraftSaved
	if req.Published {
		msg = i18n.MsgPublished
	}
	return jsonMessage(c, http.StatusOK, msg, apiResponse{
		FileName: name,
		FilePath: postPath(name),
	})
}

func (a *App) handleStudyUpdate(c echo.Context) error {
	req, err := bindPost(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, i18n.MsgMissing)
	}
	if req.FileName == "" {
		req.FileName = c.QueryParam("fileName")
	}
	if req.FileName == "" {
		return jsonError(c, http.StatusBadRequest, i18n.MsgMissingName)
	}
	if !hasRequired(req.Fields) {
		return jsonError(c, http.StatusBadRequest, i18n.MsgMissing)
	}
	if err := a.Store.Update(req.FileName, req.Fields); err != nil {
		return jsonStoreError(c, err)
	}
	a.Cache.Invalidate()
	return jsonMessage(c, http.StatusOK, i18n.MsgUpdated, apiResponse{
		FileName: req.FileName,
		FilePath: postPath(req.FileName),
	})
}

// postPath is the public page of the post stored in fileName.
func postPath(fileName string) string {
	return content.PostMeta{Slug: content.SlugOf(fileName)}.Link()
}

func (a *App) handleStudyDelete(c echo.Context) error {
	name := c.QueryParam("fileName")
	if name == "" {
		return jsonError(c, http.StatusBadRequest, i18n.MsgMissingName)
	}
	if err := a.Store.Delete(name); err != nil {
		return jsonStoreError(c, err)
	}
	a.Cache.Invalidate()
	return jsonMessage(c, http.StatusOK, i18n.MsgDeleted, apiResponse{FileName: name})
}

// handleStudyStats reports the analytics summary for the last ?days= days
// (default 30, at most 365).
func (a *App) handleStudyStats(c echo.Context) error {
	if a.analyticsStore == nil {
		return c.JSON(http.StatusOK, apiResponse{Success: true})
	}
	days, err := strconv.Atoi(c.QueryParam("days"))
	if err != nil || days <= 0 {
		days = 30
	}
	days = min(days, 365)
	to := a.now().UTC()
	from := to.AddDate(0, 0, -days).Truncate(24 * time.Hour)
	stats, err := a.analyticsStore.Stats(c.Request().Context(), from, to)
	if err != nil {
		return jsonStoreError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Success: true, Data: stats})
}

func bindPost(c echo.Context) (postRequest, error) {
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return req, err
	}
	req.Tags = SplitTags(req.Tags)
	req.FileName = strings.TrimSpace(req.FileName)
	return req, nil
}

func hasRequired(f content.Fields) bool {
	return strings.TrimSpace(f.Title) != "" && strings.TrimSpace(f.Content) != ""
}
