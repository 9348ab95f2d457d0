package handler

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/user/vidgate/internal/middleware"
	"github.com/user/vidgate/internal/model"
)

// LoginPage 登录页
func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
		"Title":    "登录 - " + h.Config.SiteName,
		"Redirect": c.Query("redirect"),
	}))
}

// RegisterPage 注册页
func (h *Handler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", h.RenderData(c, gin.H{
		"Title": "注册 - " + h.Config.SiteName,
	}))
}

// registerForm 注册表单
type registerForm struct {
	Email    string `form:"email" validate:"required,email"`
	Username string `form:"username" validate:"required,min=2,max=32"`
	Password string `form:"password" validate:"required,min=8"`
}

// Register 注册
func (h *Handler) Register(c *gin.Context) {
	form := registerForm{
		Email:    strings.TrimSpace(c.PostForm("email")),
		Username: strings.TrimSpace(c.PostForm("username")),
		Password: c.PostForm("password"),
	}

	// 校验失败不触碰任何 I/O
	if err := h.validate.Struct(&form); err != nil {
		c.HTML(http.StatusOK, "register.html", h.RenderData(c, gin.H{
			"Title": "注册 - " + h.Config.SiteName,
			"Error": "请检查邮箱、用户名（2-32位）和密码（至少8位）",
			"Email": form.Email,
		}))
		return
	}

	if existing, _ := h.Repos.User.FindByEmail(form.Email); existing != nil {
		c.HTML(http.StatusOK, "register.html", h.RenderData(c, gin.H{
			"Title": "注册 - " + h.Config.SiteName,
			"Error": "该邮箱已注册",
		}))
		return
	}

	user, err := h.Repos.User.Create(form.Email, form.Username, form.Password)
	if err != nil {
		c.HTML(http.StatusOK, "register.html", h.RenderData(c, gin.H{
			"Title": "注册 - " + h.Config.SiteName,
			"Error": "注册失败，请稍后重试",
		}))
		return
	}

	h.establishSession(c, user)
	c.Redirect(http.StatusFound, "/dashboard")
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	redirect := c.PostForm("redirect")

	renderError := func(msg string) {
		c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
			"Title":    "登录 - " + h.Config.SiteName,
			"Error":    msg,
			"Email":    email,
			"Redirect": redirect,
		}))
	}

	if email == "" || password == "" {
		renderError("请输入邮箱和密码")
		return
	}

	user, err := h.Repos.User.FindByEmail(email)
	if err != nil {
		renderError("登录失败，请稍后重试")
		return
	}
	if user == nil || !h.Repos.User.CheckPassword(user, password) {
		renderError("邮箱或密码错误")
		return
	}

	h.establishSession(c, user)

	if redirect != "" && strings.HasPrefix(redirect, "/") {
		c.Redirect(http.StatusFound, redirect)
		return
	}
	if user.IsAdmin() {
		c.Redirect(http.StatusFound, "/admin")
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

// Logout 退出登录
func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// establishSession 登录成功：写入 Session 用户信息并签发 JWT Cookie
func (h *Handler) establishSession(c *gin.Context, user *model.User) {
	session := sessions.Default(c)
	session.Set("userinfo", model.SessionUser{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	})
	session.Save()

	token, err := middleware.GenerateToken(user.ID, user.Email, user.Role, h.Config.AppSecret, h.Config.JWTExpiry)
	if err == nil {
		c.SetCookie(middleware.TokenCookie, token, int(h.Config.JWTExpiry.Seconds()), "/", "", false, true)
	}
}
