// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check is one dependency probed by Readiness.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// ReadinessResponse reports the overall status and the result of each check.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// 依存先は確認せず、プロセスが応答できることだけを示します。
func Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Readiness は /readyz 用のハンドラーを返します。
// いずれかのチェックが失敗した場合は503 Service Unavailableを返します。
func Readiness(timeout time.Duration, checks ...Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		res := ReadinessResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		for _, chk := range checks {
			if err := chk.Ping(ctx); err != nil {
				res.Status = "unavailable"
				res.Checks[chk.Name] = err.Error()
				continue
			}
			res.Checks[chk.Name] = "ok"
		}

		status := http.StatusOK
		if res.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, res)
	}
}
