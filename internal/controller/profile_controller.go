package controller

import (
	"elearn_backend/internal/form"
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	ProfileService *service.ProfileService
	Storage        *service.StorageService
}

func NewProfileController(profileService *service.ProfileService, storage *service.StorageService) *ProfileController {
	return &ProfileController{ProfileService: profileService, Storage: storage}
}

// GetProfile godoc
// @Summary Current user's profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.Profile}
// @Failure 401 {object} util.Response
// @Router /api/profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	profile, err := c.ProfileService.Get(claims.UserID)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Success(ctx, c.present(profile.ProfilePic, profile))
}

// UpdateProfile godoc
// @Summary Edit the current user's profile
// @Description Multipart form. All fields and the profile picture are required.
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param country_code formData string true "One of +91, +1, +44, +61, +971"
// @Param profession formData string true "Profession"
// @Param bio formData string true "Bio"
// @Param phone formData string true "Phone"
// @Param address formData string true "Address"
// @Param profile_pic formData file true "Profile picture"
// @Success 200 {object} util.Response{data=model.Profile}
// @Failure 400 {object} util.Response "Validation failed"
// @Router /api/profile [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}

	var f form.ProfileForm
	if err := ctx.ShouldBind(&f); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	pic, err := readUpload(ctx, "profile_pic")
	if err != nil {
		respond(ctx, err)
		return
	}
	f.ProfilePic = pic

	profile, err := c.ProfileService.Update(ctx.Request.Context(), claims.UserID, &f)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Success(ctx, c.present(profile.ProfilePic, profile))
}

func (c *ProfileController) present(key string, profile interface{}) gin.H {
	url := ""
	if key != "" {
		url = c.Storage.GetURL(key)
	}
	return gin.H{"profile": profile, "profilePicUrl": url}
}
