package lib

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonLogFormatter(t *testing.T) {
	line := JsonLogFormatter(gin.LogFormatterParams{
		TimeStamp:  time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC),
		StatusCode: 200,
		Latency:    time.Millisecond,
		ClientIP:   "127.0.0.1",
		Method:     "POST",
		Path:       "/text",
		BodySize:   42,
		Keys:       map[string]interface{}{RequestIDKey: "abc"},
	})
	require.Equal(t, byte('\n'), line[len(line)-1])

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &got))
	assert.Equal(t, "2022-03-01T12:00:00", got["time"])
	assert.Equal(t, 200.0, got["status"])
	assert.Equal(t, "abc", got[RequestIDKey])
	assert.Equal(t, 42.0, got["bytes"])
	assert.NotContains(t, got, "context")
	assert.NotContains(t, got, "error")
}
