package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/nextchapter/bookclub/internal/utils"
)

// AsyncMiddleware 异步处理中间件
// 将请求的处理逻辑提交到 Worker Pool 中执行，严格控制并发处理的请求数量。
// 队列有缓冲，请求不会被立即拒绝，而是排队等待处理。
func AsyncMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 未初始化 Worker Pool 时降级为同步执行
		if utils.GlobalWorkerPool == nil {
			c.Next()
			return
		}

		done := make(chan struct{})

		// 主 Goroutine 阻塞等待 (<-done)，同一时间只有一个 Worker 操作 c
		task := func() {
			defer close(done)
			c.Next()
		}

		utils.GlobalWorkerPool.Submit(task)

		<-done
	}
}
