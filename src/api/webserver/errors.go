package webserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stake-plus/daoverse/src/gov"
)

// statusFor maps the engine's error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch gov.Kind(err) {
	case gov.KindAuthorization:
		return http.StatusForbidden
	case gov.KindValidation:
		return http.StatusBadRequest
	case gov.KindInsufficiency:
		return http.StatusPaymentRequired
	case gov.KindArithmetic:
		return http.StatusUnprocessableEntity
	case gov.KindLifecycle:
		return http.StatusConflict
	case gov.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func abortEngineErr(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"err": err.Error(), "kind": gov.Kind(err)})
}

func seedParam(c *gin.Context, name string) (uint64, bool) {
	seed, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad " + name})
		return 0, false
	}
	return seed, true
}

func caller(c *gin.Context) string {
	return c.GetString(addrKey)
}
