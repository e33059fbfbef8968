package handlers

import (
	"net/http"

	"speed-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

const verificationPath = "/driver/verification"

// POST /api/driver/online
func PostDriverOnline(c *gin.Context) {
	rc, ok := requireUser(c)
	if !ok {
		return
	}
	d, err := availabilityService(c).AttemptGoOnline(c.Request.Context(), rc.UserID)
	if err != nil {
		if domain.IsNotVerified(err) {
			resume := verificationService(c).ResumeStep(c.Request.Context(), rc.UserID)
			respondError(c, http.StatusForbidden, "not_verified", "Complete your verification to go online", gin.H{
				"redirect":   verificationPath,
				"resumeStep": resume,
			})
			return
		}
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": d})
}

// POST /api/driver/offline
func PostDriverOffline(c *gin.Context) {
	rc, ok := requireUser(c)
	if !ok {
		return
	}
	d, err := availabilityService(c).GoOffline(c.Request.Context(), rc.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": d})
}

// GET /api/drivers/online
func GetOnlineDrivers(c *gin.Context) {
	drivers, err := availabilityService(c).ListOnline(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": drivers})
}
