package controller

import (
	"elearn_backend/internal/form"
	"elearn_backend/internal/util"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps a single uploaded file.
const maxUploadBytes = 200 << 20

// respond maps service errors onto HTTP replies.
func respond(ctx *gin.Context, err error) {
	if ve, ok := form.AsValidationError(err); ok {
		util.ValidationFailed(ctx, ve.Fields)
		return
	}

	switch {
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrCertificateNotFound),
		errors.Is(err, util.ErrPaymentNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrPermissionDenied),
		errors.Is(err, util.ErrNotEnrolled):
		util.Error(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrPaymentRequired):
		util.Error(ctx, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, util.ErrAlreadyEnrolled),
		errors.Is(err, util.ErrLessonAlreadyCompleted),
		errors.Is(err, util.ErrCourseAlreadyCompleted),
		errors.Is(err, util.ErrCertificateExists),
		errors.Is(err, util.ErrDuplicateOrder),
		errors.Is(err, util.ErrInvalidTransition):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrCourseIsFree),
		errors.Is(err, util.ErrInvalidSignature):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrGateway):
		util.Error(ctx, http.StatusBadGateway, "Payment gateway unavailable")
	default:
		util.LogInternalError(ctx, err)
	}
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// currentUser aborts with 401 when the request carries no claims.
func currentUser(ctx *gin.Context) (*util.Claims, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return nil, false
	}
	return claims, true
}

// readUpload returns nil when the field is absent or the body is not multipart.
func readUpload(ctx *gin.Context, field string) (*form.Upload, error) {
	fh, err := ctx.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size > maxUploadBytes {
		return nil, form.NewValidationError(field, "File is too large.")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &form.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
