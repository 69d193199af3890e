package routers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nextchapter/bookclub/config"
	"github.com/nextchapter/bookclub/internal/handlers"
	"github.com/nextchapter/bookclub/internal/middlewares"
	"github.com/nextchapter/bookclub/pkg/ratelimit"
)

// SetupRoutes 设置所有路由
func SetupRoutes(r *gin.Engine, cfg *config.Config,
	authHandler *handlers.AuthHandler,
	clubHandler *handlers.ClubHandler,
	bookHandler *handlers.BookHandler,
	notesHandler *handlers.NotesHandler,
	meetingHandler *handlers.MeetingHandler,
	libraryHandler *handlers.LibraryHandler,
	limiter ratelimit.Limiter,
) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// 全局限流中间件 (防止 QPS 过高)
	if cfg.RateLimit.Enabled {
		r.Use(middlewares.RateLimitMiddleware(limiter, cfg.RateLimit.PerMinute))
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"Status": "OK",
		})
	})

	// 异步处理中间件
	// 将请求放入 Worker Pool 中排队执行
	r.Use(middlewares.AsyncMiddleware())

	// 注册路由
	RegisterAuthRoutes(r, authHandler)
	RegisterClubRoutes(r, clubHandler, bookHandler, meetingHandler)
	RegisterCycleRoutes(r, notesHandler)
	RegisterMeetingRoutes(r, meetingHandler)
	RegisterBookRoutes(r, bookHandler)
	RegisterLibraryRoutes(r, libraryHandler)
}

// AuthHandler 接口定义
func RegisterAuthRoutes(r *gin.Engine, authHandler *handlers.AuthHandler) {
	authGroup := r.Group("/api/v1/auth")
	{
		authGroup.POST("/register", authHandler.Register) // 注册
		authGroup.POST("/login", authHandler.Login)       // 登录
	}
	authGroup.Use(middlewares.AuthMiddleware())
	{
		authGroup.GET("/me", authHandler.GetProfile)    // 获取当前用户信息
		authGroup.PUT("/me", authHandler.UpdateProfile) // 更新当前用户资料
	}
}

// ClubHandler 接口定义 (含书目与聚会的俱乐部子路由)
func RegisterClubRoutes(r *gin.Engine, clubHandler *handlers.ClubHandler, bookHandler *handlers.BookHandler, meetingHandler *handlers.MeetingHandler) {
	clubGroup := r.Group("/api/v1/clubs")
	clubGroup.Use(middlewares.AuthMiddleware())
	{
		clubGroup.POST("", clubHandler.CreateClub)      // 创建俱乐部
		clubGroup.GET("", clubHandler.ListClubs)        // 发现俱乐部
		clubGroup.GET("/mine", clubHandler.MyClubs)     // 我的俱乐部
		clubGroup.GET("/:club_id", clubHandler.GetClub) // 俱乐部详情

		// 成员管理
		clubGroup.POST("/:club_id/join", clubHandler.JoinClub)                     // 申请加入
		clubGroup.POST("/:club_id/leave", clubHandler.LeaveClub)                   // 退出
		clubGroup.GET("/:club_id/members", clubHandler.ListMembers)                // 成员列表
		clubGroup.PATCH("/members/:membership_id", clubHandler.UpdateMemberStatus) // 审批成员
		clubGroup.DELETE("/members/:membership_id", clubHandler.RemoveMember)      // 移除成员

		// 书目相关
		clubGroup.GET("/:club_id/books", bookHandler.GetClubBooks)                 // 历史书目
		clubGroup.POST("/:club_id/books/current", bookHandler.SetCurrentBook)      // 指定本期书目
		clubGroup.POST("/:club_id/books/:book_id/reveal", bookHandler.RevealNotes) // 公开笔记

		// 推荐
		clubGroup.POST("/:club_id/suggestions", bookHandler.SuggestBook)    // 推荐下一本
		clubGroup.GET("/:club_id/suggestions", bookHandler.ListSuggestions) // 推荐列表

		// 聚会
		clubGroup.POST("/:club_id/meetings", meetingHandler.SaveMeeting) // 创建/编辑聚会
		clubGroup.GET("/:club_id/meetings", meetingHandler.ListUpcoming) // 未来聚会
	}
}

// NotesHandler 接口定义 (按阅读周期组织)
func RegisterCycleRoutes(r *gin.Engine, notesHandler *handlers.NotesHandler) {
	cycleGroup := r.Group("/api/v1/cycles")
	cycleGroup.Use(middlewares.AuthMiddleware())
	{
		cycleGroup.POST("/:club_book_id/notes", notesHandler.AddNote)          // 追加笔记
		cycleGroup.POST("/:club_book_id/questions", notesHandler.AddQuestion)  // 追加问题
		cycleGroup.PUT("/:club_book_id/rating", notesHandler.UpsertRating)     // 评分
		cycleGroup.GET("/:club_book_id/mine", notesHandler.GetMyBookData)      // 我的笔记与评分
		cycleGroup.GET("/:club_book_id/notes", notesHandler.ListRevealedNotes) // 公开后的全部笔记
	}
}

// MeetingHandler 顶层路由 (RSVP 按聚会 ID 操作)
func RegisterMeetingRoutes(r *gin.Engine, meetingHandler *handlers.MeetingHandler) {
	meetingGroup := r.Group("/api/v1/meetings")
	meetingGroup.Use(middlewares.AuthMiddleware())
	{
		meetingGroup.PUT("/:meeting_id/rsvp", meetingHandler.RSVP) // 出席回执
	}
}

// BookHandler 顶层路由 (搜索与推荐驳回)
func RegisterBookRoutes(r *gin.Engine, bookHandler *handlers.BookHandler) {
	bookGroup := r.Group("/api/v1/books")
	bookGroup.Use(middlewares.AuthMiddleware())
	{
		bookGroup.GET("/search", bookHandler.SearchBooks)    // Open Library 搜索
		bookGroup.GET("/isbn/:isbn", bookHandler.LookupISBN) // ISBN 精确查询
	}

	suggestionGroup := r.Group("/api/v1/suggestions")
	suggestionGroup.Use(middlewares.AuthMiddleware())
	{
		suggestionGroup.DELETE("/:suggestion_id", bookHandler.DismissSuggestion) // 驳回推荐
	}
}

// LibraryHandler 接口定义
func RegisterLibraryRoutes(r *gin.Engine, libraryHandler *handlers.LibraryHandler) {
	libraryGroup := r.Group("/api/v1/library")
	libraryGroup.Use(middlewares.AuthMiddleware())
	{
		libraryGroup.POST("/books", libraryHandler.AddBook)               // 加入书单
		libraryGroup.GET("/books", libraryHandler.ListBooks)              // 列出书单
		libraryGroup.PATCH("/books/:book_id", libraryHandler.MoveBook)    // 移动书单
		libraryGroup.DELETE("/books/:book_id", libraryHandler.RemoveBook) // 从书单移除
	}
}
