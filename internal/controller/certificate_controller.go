package controller

import (
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// VerifyCertificate godoc
// @Summary Public certificate lookup
// @Tags certificates
// @Produce json
// @Param certificateId path string true "Certificate UUID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/certificates/{certificateId} [get]
func (c *CertificateController) VerifyCertificate(ctx *gin.Context) {
	id := ctx.Param("certificateId")
	if _, err := uuid.Parse(id); err != nil {
		util.NotFound(ctx)
		return
	}

	cert, err := c.CertificateService.Verify(id)
	if err != nil {
		respond(ctx, err)
		return
	}

	holder := ""
	if cert.User != nil {
		holder = cert.User.Username
	}
	course := ""
	if cert.Course != nil {
		course = cert.Course.Title
	}
	util.Success(ctx, gin.H{
		"certificateId": cert.CertificateID,
		"holder":        holder,
		"course":        course,
		"issuedAt":      cert.CreatedAt,
	})
}

// MyCertificates godoc
// @Summary Certificates earned by the caller
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Certificate}
// @Router /api/certificates [get]
func (c *CertificateController) MyCertificates(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	certs, err := c.CertificateService.ListForUser(claims.UserID)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Success(ctx, certs)
}
