package lib

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key holding the id of a request.
const RequestIDKey = "request_id"

func JsonLogFormatter(params gin.LogFormatterParams) string {
	logline := map[string]interface{}{
		"time":    params.TimeStamp.UTC().Format("2006-01-02T15:04:05.999"),
		"status":  params.StatusCode,
		"latency": params.Latency.String(),
		"client":  params.ClientIP,
		"method":  params.Method,
		"path":    params.Path,
		"bytes":   params.BodySize,
	}
	if params.ErrorMessage != "" {
		logline["error"] = params.ErrorMessage
	}
	if id, ok := params.Keys[RequestIDKey]; ok {
		logline[RequestIDKey] = id
	}
	if len(params.Keys) > 1 {
		logline["context"] = params.Keys
	}
	b, _ := json.Marshal(logline)
	return string(b) + "\n"
}
