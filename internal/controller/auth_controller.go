package controller

import (
	"elearn_backend/internal/form"
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register godoc
// @Summary Register a student account
// @Description Accepts JSON or form data. Every field problem is reported under errors.
// @Tags auth
// @Accept  json
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param   body body form.RegisterForm true "Registration"
// @Success 201 {object} util.Response{data=model.User} "Created"
// @Failure 400 {object} util.Response "Validation failed"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var f form.RegisterForm
	if err := ctx.ShouldBind(&f); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(&f)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Created(ctx, user)
}

// swagger:model LoginRequest
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Login godoc
// @Summary Log in
// @Description Returns a bearer token for the API
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "Credentials"
// @Success 200 {object} util.Response{data=object} "Token and user"
// @Failure 400 {object} util.Response "Bad request"
// @Failure 401 {object} util.Response "Invalid credentials"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, err := c.AuthService.Login(req.Username, req.Password)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"token": token, "user": user})
}

// UpdateAccount godoc
// @Summary Edit the caller's username and email
// @Tags auth
// @Accept  json
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Security BearerAuth
// @Param   body body form.EditUserForm true "Account"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response "Validation failed"
// @Failure 401 {object} util.Response
// @Router /api/account [put]
func (c *AuthController) UpdateAccount(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	var f form.EditUserForm
	if err := ctx.ShouldBind(&f); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.UpdateAccount(claims.UserID, &f)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Success(ctx, user)
}
