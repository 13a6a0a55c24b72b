package api

import (
	"github.com/comments-api/internal/errs"
	"github.com/comments-api/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError writes err as a JSON error response and stops the chain
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	e := errs.From(err)
	metrics.Rejections.WithLabelValues(string(e.Kind)).Inc()

	if e.Kind == errs.KindInternal {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Msg("Unexpected failure")
	}

	c.AbortWithStatusJSON(e.Status, errorBody(e))
}

func errorBody(e *errs.Error) gin.H {
	body := gin.H{
		"error": e.Message,
		"code":  string(e.Kind),
	}
	if len(e.Fields) > 0 {
		body["errors"] = e.Fields
	}
	return body
}
