package controller

import (
	"college_chatbot_backend/internal/middleware"
	"college_chatbot_backend/internal/model"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// Pages maps each public route to its file under the templates directory.
var Pages = map[string]string{
	"/":                  "splash/splash.html",
	"/home":              "home/home.html",
	"/admissions":        "admissions/admissions.html",
	"/courses":           "courses/courses.html",
	"/facilities":        "facilities/facilities.html",
	"/placements":        "placements/placements.html",
	"/events":            "events/events.html",
	"/about":             "about/about.html",
	"/contact":           "contact/contact.html",
	"/login":             "login/login.html",
	"/student/dashboard": "student/dashboard/dashboard.html",
	"/student/chat":      "student/chat/chat.html",
}

const (
	adminPage = "admin/admin.html"
	loginPage = "login/login.html"
)

type PageController struct {
	TemplatesDir string
	Auth         middleware.Authenticator
}

func NewPageController(templatesDir string, auth middleware.Authenticator) *PageController {
	return &PageController{TemplatesDir: templatesDir, Auth: auth}
}

func (c *PageController) serve(ctx *gin.Context, rel string) {
	path := filepath.Join(c.TemplatesDir, filepath.FromSlash(rel))
	if _, err := os.Stat(path); err != nil {
		ctx.String(http.StatusNotFound, "page not found")
		return
	}
	ctx.File(path)
}

// Page returns a handler serving one static page.
func (c *PageController) Page(rel string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		c.serve(ctx, rel)
	}
}

// Admin serves the dashboard to signed-in admins and the login page to everyone else.
func (c *PageController) Admin(ctx *gin.Context) {
	token := middleware.TokenFromRequest(ctx)
	if token != "" {
		if claims, err := c.Auth.Authenticate(ctx.Request.Context(), token); err == nil && claims.Role == model.Admin {
			c.serve(ctx, adminPage)
			return
		}
	}
	c.serve(ctx, loginPage)
}
